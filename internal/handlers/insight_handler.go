package handlers

import (
	"log/slog"
	"net/http"

	"famcoach/internal/middleware"
	"famcoach/internal/model"
	"famcoach/internal/service"
	"famcoach/internal/webutil"
)

const defaultInsightLimit = 10

type InsightHandler struct {
	service service.InsightService
	logger  *slog.Logger
}

func NewInsightHandler(s service.InsightService, logger *slog.Logger) *InsightHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &InsightHandler{
		service: s,
		logger:  logger,
	}
}

// Generate produces and persists one coaching insight.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "GenerateInsight"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With(slog.String("user_id", userID.String()))

	insight, err := h.service.GenerateInsight(r.Context(), userID)
	if err != nil {
		logger.Error("Error generating insight in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Insight generated", slog.String("category", string(insight.Category)))
	webutil.RespondWithJSON(w, http.StatusCreated, insight, logger)
}

// List returns recent insights, newest first.
func (h *InsightHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With(slog.String("handler", "ListInsights"))

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		logger.Warn("Unauthorized access attempt", slog.String("error", err.Error()))
		appErr := model.NewAppError("UNAUTHORIZED", "Authentication required.", "", model.ErrUnauthorized)
		webutil.HandleError(w, logger, appErr)
		return
	}

	insights, err := h.service.ListInsights(r.Context(), userID, defaultInsightLimit)
	if err != nil {
		logger.Error("Error listing insights in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	if insights == nil {
		insights = []*model.Insight{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, insights, logger)
}
