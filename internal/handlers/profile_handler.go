package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"famcoach/internal/coach"
	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/service"
	"famcoach/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ProfileHandler struct {
	service service.ProfileService
	logger  *slog.Logger
}

func NewProfileHandler(s service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		service: s,
		logger:  logger,
	}
}

// SubmitStage validates and saves one wizard stage. The stage index in
// the URL picks the payload type from the stage table.
func (h *ProfileHandler) SubmitStage(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SubmitStage"))

	userID, ok := h.userID(w, r, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	indexStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		logger.Warn("Invalid stage index in URL", slog.String("index_str", indexStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "The stage index must be a number.", "index", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	desc := coach.StageByIndex(index)
	if desc == nil {
		logger.Warn("Unknown stage index", slog.Int("index", index))
		appErr := model.NewAppError("UNKNOWN_STAGE", "There is no such intake step.", "index", model.ErrNotFound)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("stage", desc.Name))

	payload := desc.New()
	if err := webutil.DecodeJSONBody(r, payload); err != nil {
		logger.Warn("Failed to decode stage payload", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Stage validation failed", slog.String("errors", validationErrors.Error()))
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation", slog.Any("error", err))
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.SubmitStage(r.Context(), userID, index, payload)
	if err != nil {
		logger.Error("Error submitting stage in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Stage submitted", slog.Int("completed_stages", resp.CompletedStages))
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// ResolveMidpoint records the midpoint-dialog choice.
func (h *ProfileHandler) ResolveMidpoint(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ResolveMidpoint"))

	userID, ok := h.userID(w, r, logger)
	if !ok {
		return
	}

	var req model.MidpointRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.ResolveMidpoint(r.Context(), userID, *req.Continue)
	if err != nil {
		logger.Error("Error resolving midpoint in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// SaveDraft is the autosave endpoint: partial merge, no validation.
func (h *ProfileHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "SaveDraft"))

	userID, ok := h.userID(w, r, logger)
	if !ok {
		return
	}

	var draft model.ProfileDraft
	if err := webutil.DecodeJSONBody(r, &draft); err != nil {
		logger.Warn("Failed to decode draft body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := h.service.Autosave(r.Context(), userID, &draft); err != nil {
		// Best-effort: the client keeps its local copy and retries on
		// the next tick.
		logger.Warn("Autosave failed", slog.Any("error", err))
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProfile returns the stored intake draft for resume.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GetProfile"))

	userID, ok := h.userID(w, r, logger)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if webutil.MapErrorToStatusCode(err) == http.StatusNotFound {
			logger.Info("Profile not found", slog.String("user_id", userID.String()))
		} else {
			logger.Error("Error getting profile from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, profile, logger)
}

func (h *ProfileHandler) userID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (uuid.UUID, bool) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return uuid.Nil, false
	}
	return userID, true
}
