package domain

import (
	"github.com/google/uuid"
)

// TopicExample is a small worked example attached to a recommended topic.
type TopicExample struct {
	Title       string `json:"title"`
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

// RecommendedTopic is a study topic suggested to the user, with the
// supporting detail shown on the topic page.
type RecommendedTopic struct {
	ID             uuid.UUID    `json:"id"`
	UserID         uuid.UUID    `json:"user_id"`
	Title          string       `json:"title"`
	Summary        string       `json:"summary"`
	KeyConcepts    []string     `json:"key_concepts"`
	CommonPitfalls []string     `json:"common_pitfalls"`
	Example        TopicExample `json:"example"`
}
