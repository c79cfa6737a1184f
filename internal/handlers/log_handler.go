package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/service"
	"famcoach/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Default and maximum page size for the log list.
const (
	defaultLogLimit = 14
	maxLogLimit     = 90
)

type LogHandler struct {
	service service.LogService
	logger  *slog.Logger
}

func NewLogHandler(s service.LogService, logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{
		service: s,
		logger:  logger,
	}
}

// UpsertLog writes the day's activity log. The date comes from the URL
// so a second submission for the same day overwrites the first.
func (h *LogHandler) UpsertLog(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "UpsertLog"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	dateStr := chi.URLParam(r, "date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		logger.Warn("Invalid log date in URL", slog.String("date_str", dateStr))
		appErr := model.NewAppError("INVALID_URL_PARAM", "The date must be in YYYY-MM-DD form.", "date", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var req model.UpsertDailyLogRequest
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

	entry, err := h.service.UpsertLog(r.Context(), userID, date, &req)
	if err != nil {
		logger.Error("Error upserting log in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Daily log saved", slog.String("log_date", dateStr))
	webutil.RespondWithJSON(w, http.StatusOK, entry, logger)
}

// ListLogs returns recent logs, newest first.
func (h *LogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListLogs"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > maxLogLimit {
			appErr := model.NewAppError("INVALID_QUERY_PARAM", "limit must be between 1 and 90.", "limit", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		limit = parsed
	}

	logs, err := h.service.ListLogs(r.Context(), userID, limit)
	if err != nil {
		logger.Error("Error listing logs in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if logs == nil {
		logs = []*model.DailyLog{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, logs, logger)
}
