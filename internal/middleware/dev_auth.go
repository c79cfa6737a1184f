package middleware

import (
	"context"
	"net/http"

	"famcoach/internal/model"
	"famcoach/internal/webutil"

	"github.com/google/uuid"
)

// DevUserContextMiddleware is a development-only stand-in for
// AuthMiddleware: it trusts the X-User-ID header without verification.
func DevUserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		userIDStr := r.Header.Get("X-User-ID")
		if userIDStr == "" {
			logger.Warn("[DEV AUTH] X-User-ID header missing")
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID header is required.", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] invalid X-User-ID format", "value", userIDStr)
			appErr := model.NewAppError("UNAUTHORIZED", "[DEV] X-User-ID must be a UUID.", "", model.ErrUnauthorized)
			webutil.HandleError(w, logger, appErr)
			return
		}

		ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
