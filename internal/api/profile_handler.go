package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mindcraftr/mindcraftr-api/internal/api/shared"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// Achievement counts shown on the profile page. The achievement system
// itself is not implemented; the frontend displays these as-is.
const (
	achievementsUnlocked = 6
	totalAchievements    = 9
)

// ProfileHandler serves profile statistics and topic mastery.
type ProfileHandler struct {
	resultStore  store.ResultStore
	masteryStore store.MasteryStore
	logger       *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	resultStore store.ResultStore,
	masteryStore store.MasteryStore,
	log *slog.Logger,
) *ProfileHandler {
	if resultStore == nil {
		panic("result store cannot be nil")
	}
	if masteryStore == nil {
		panic("mastery store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ProfileHandler{
		resultStore:  resultStore,
		masteryStore: masteryStore,
		logger:       log.With(slog.String("component", "profile_handler")),
	}
}

// GetStats handles GET /api/v1/profile/stats.
func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	stats, err := h.resultStore.ProfileStats(ctx, DefaultUserID)
	if err != nil {
		log.Error("failed to load profile stats", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ProfileStatsResponse{
		TotalStudyTime:       formatStudyTime(stats.TotalStudySeconds),
		TestsCompleted:       stats.TestsCompleted,
		HighestScore:         stats.HighestScore,
		AchievementsUnlocked: achievementsUnlocked,
		TotalAchievements:    totalAchievements,
	})
}

// GetMastery handles GET /api/v1/profile/mastery.
func (h *ProfileHandler) GetMastery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	records, err := h.masteryStore.ListByUser(ctx, DefaultUserID)
	if err != nil {
		log.Error("failed to list topic mastery", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]MasteryResponse, 0, len(records))
	for _, record := range records {
		response = append(response, MasteryResponse{
			Topic:   record.Topic,
			Mastery: record.Score,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// formatStudyTime renders accumulated seconds as "Xh Ym".
func formatStudyTime(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
