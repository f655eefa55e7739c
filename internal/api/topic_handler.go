package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/api/shared"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// TopicHandler serves topic details and flashcards.
type TopicHandler struct {
	topicStore     store.TopicStore
	flashcardStore store.FlashcardStore
	logger         *slog.Logger
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(
	topicStore store.TopicStore,
	flashcardStore store.FlashcardStore,
	log *slog.Logger,
) *TopicHandler {
	if topicStore == nil {
		panic("topic store cannot be nil")
	}
	if flashcardStore == nil {
		panic("flashcard store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &TopicHandler{
		topicStore:     topicStore,
		flashcardStore: flashcardStore,
		logger:         log.With(slog.String("component", "topic_handler")),
	}
}

// GetDetails handles GET /api/v1/topics/{id}/details.
func (h *TopicHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	topicID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid topic ID")
		return
	}

	topic, err := h.topicStore.GetByID(ctx, topicID, DefaultUserID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to load topic details",
				slog.String("error", err.Error()),
				slog.String("topic_id", topicID.String()))
		}
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TopicDetailsResponse{
		ID:             topic.ID.String(),
		Title:          topic.Title,
		Summary:        topic.Summary,
		KeyConcepts:    topic.KeyConcepts,
		CommonPitfalls: topic.CommonPitfalls,
		Example: TopicExampleResponse{
			Title:       topic.Example.Title,
			Code:        topic.Example.Code,
			Explanation: topic.Example.Explanation,
		},
	})
}

// ListFlashcards handles GET /api/v1/flashcards.
func (h *TopicHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	cards, err := h.flashcardStore.ListByUser(ctx, DefaultUserID)
	if err != nil {
		log.Error("failed to list flashcards", slog.String("error", err.Error()))
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]FlashcardResponse, 0, len(cards))
	for _, card := range cards {
		response = append(response, FlashcardResponse{
			ID:    card.ID.String(),
			Front: card.Front,
			Back:  card.Back,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
