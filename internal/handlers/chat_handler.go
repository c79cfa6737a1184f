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

const defaultChatLimit = 30

type ChatHandler struct {
	service service.ChatService
	logger  *slog.Logger
}

func NewChatHandler(s service.ChatService, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		service: s,
		logger:  logger,
	}
}

// Send generates a coach reply to the user's message.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SendChat"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	var req model.ChatRequest
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

	message, err := h.service.SendMessage(r.Context(), userID, &req)
	if err != nil {
		logger.Error("Error sending chat message in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Chat reply sent")
	webutil.RespondWithJSON(w, http.StatusCreated, message, logger)
}

// History returns recent exchanges, newest first.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ChatHistory"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	messages, err := h.service.ListMessages(r.Context(), userID, defaultChatLimit)
	if err != nil {
		logger.Error("Error listing chat messages in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, messages, logger)
}
