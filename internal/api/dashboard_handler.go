package api

import (
	"log/slog"
	"net/http"

	"github.com/mindcraftr/mindcraftr-api/internal/api/shared"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// DashboardHandler serves the dashboard aggregates and recommendations.
type DashboardHandler struct {
	resultStore store.ResultStore
	topicStore  store.TopicStore
	logger      *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	resultStore store.ResultStore,
	topicStore store.TopicStore,
	log *slog.Logger,
) *DashboardHandler {
	if resultStore == nil {
		panic("result store cannot be nil")
	}
	if topicStore == nil {
		panic("topic store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &DashboardHandler{
		resultStore: resultStore,
		topicStore:  topicStore,
		logger:      log.With(slog.String("component", "dashboard_handler")),
	}
}

// GetStats handles GET /api/v1/dashboard/stats. A user with no test
// results gets "N/A" in every field; the frontend renders the strings
// verbatim.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	stats, err := h.resultStore.DashboardStats(ctx, DefaultUserID)
	if err != nil {
		log.Error("failed to load dashboard stats", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if stats.TestsTaken == 0 {
		shared.RespondWithJSON(w, r, http.StatusOK, DashboardStatsResponse{
			TestsTaken:        "N/A",
			AverageScore:      "N/A",
			HighestScore:      "N/A",
			QuestionsAnswered: "N/A",
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DashboardStatsResponse{
		TestsTaken:        stats.TestsTaken,
		AverageScore:      int(stats.AverageScore),
		HighestScore:      stats.HighestScore,
		QuestionsAnswered: stats.QuestionsAnswered,
	})
}

// GetRecommendations handles GET /api/v1/dashboard/recommendations.
func (h *DashboardHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	topics, err := h.topicStore.ListRecommended(ctx, DefaultUserID)
	if err != nil {
		log.Error("failed to list recommendations", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	recommendations := make([]RecommendationResponse, 0, len(topics))
	for _, topic := range topics {
		recommendations = append(recommendations, RecommendationResponse{
			ID:      topic.ID.String(),
			Title:   topic.Title,
			Summary: topic.Summary,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, recommendations)
}
