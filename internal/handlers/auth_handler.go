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

type AuthHandler struct {
	service service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(s service.AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service: s,
		logger:  logger,
	}
}

// RequestCode mails a one-time sign-in code. The response does not
// reveal whether the email was already registered.
func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "RequestCode"))

	var req model.RequestCodeRequest
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

	if err := h.service.RequestCode(r.Context(), &req); err != nil {
		logger.Error("Error requesting login code in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Login code requested")
	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "If the address is valid, a sign-in code is on its way.",
	}, logger)
}

// VerifyCode exchanges a six-digit code for a session token.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "VerifyCode"))

	var req model.VerifyCodeRequest
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

	session, err := h.service.VerifyCode(r.Context(), &req)
	if err != nil {
		logger.Warn("Code verification failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Session issued", slog.String("user_id", session.User.UserID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, session, logger)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "Me"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, user.ToResponse(), logger)
}
