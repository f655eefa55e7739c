package domain

import (
	"github.com/google/uuid"
)

// Flashcard is a simple front/back study card owned by a user.
type Flashcard struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Front  string    `json:"front"`
	Back   string    `json:"back"`
}

// TopicMastery records how well the user has mastered a single topic.
// Score is in the range [0, 1].
type TopicMastery struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}
