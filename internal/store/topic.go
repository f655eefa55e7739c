package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
)

// TopicStore defines read access to recommended topics.
type TopicStore interface {
	// ListRecommended returns all topics recommended to the user.
	// Returns an empty slice when there are none.
	ListRecommended(ctx context.Context, userID uuid.UUID) ([]*domain.RecommendedTopic, error)

	// GetByID retrieves a single topic owned by the user.
	// Returns ErrTopicNotFound if the topic does not exist.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.RecommendedTopic, error)
}

// FlashcardStore defines read access to flashcards.
type FlashcardStore interface {
	// ListByUser returns all flashcards owned by the user.
	// Returns an empty slice when there are none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Flashcard, error)
}

// MasteryStore defines read access to topic mastery records.
type MasteryStore interface {
	// ListByUser returns the user's mastery records.
	// Returns an empty slice when there are none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TopicMastery, error)
}
