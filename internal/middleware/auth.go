package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"famcoach/internal/config"
	"famcoach/internal/model"
	"famcoach/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthMiddleware validates the Bearer JWT issued by the one-time-code
// login flow and puts the user ID into the request context. An expired or
// missing session is a 401, never a silently-created fresh session.
func AuthMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("Auth failed: Authorization header missing")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header is required.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				logger.Warn("Auth failed: invalid Authorization header format")
				appErr := model.NewAppError("UNAUTHORIZED", "Authorization header must be of the form 'Bearer <token>'.", "", model.ErrUnauthorized)
				webutil.HandleError(w, logger, appErr)
				return
			}
			tokenString := headerParts[1]

			// jwt.Parse verifies both the signature and the exp claim.
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.JWT.SecretKey), nil
			})
			if err != nil {
				code := "INVALID_TOKEN"
				msg := "Session token is invalid."
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = "SESSION_EXPIRED"
					msg = "Session has expired. Please sign in again."
				}
				logger.Warn("Auth failed: invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError(code, msg, "", model.ErrUnauthorized))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				logger.Warn("Auth failed: unexpected claims type")
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Session token is invalid.", "", model.ErrUnauthorized))
				return
			}

			subject, err := claims.GetSubject()
			if err != nil {
				logger.Warn("Auth failed: subject claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Session token carries no user.", "", model.ErrUnauthorized))
				return
			}

			userID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("Auth failed: invalid subject format", "subject", subject)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "Session token carries a malformed user.", "", model.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the authenticated user ID placed there by
// AuthMiddleware.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.UserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.NewAppError("INTERNAL_SERVER_ERROR", "No user in request context.", "", model.ErrInternalServer)
	}
	return value, nil
}
