package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/service"
	"famcoach/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type AssistHandler struct {
	service service.AssistService
	logger  *slog.Logger
}

func NewAssistHandler(s service.AssistService, logger *slog.Logger) *AssistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistHandler{
		service: s,
		logger:  logger,
	}
}

// Suggest returns an AI-drafted answer for one intake form field,
// charged against the daily quota.
func (h *AssistHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SuggestField"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.AssistRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed", slog.String("errors", validationErrors.Error()))
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.SuggestField(r.Context(), userID, &req)
	if err != nil {
		if webutil.MapErrorToStatusCode(err) == http.StatusTooManyRequests {
			logger.Info("Assist quota exceeded")
		} else {
			logger.Error("Error generating suggestion in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Suggestion generated", slog.String("field", req.Field), slog.Int("remaining", resp.Remaining))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// Usage reports today's consumption against the daily ceiling.
func (h *AssistHandler) Usage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Usage"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	usage, err := h.service.GetUsage(r.Context(), userID)
	if err != nil {
		logger.Error("Error getting usage in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, usage, logger)
}
