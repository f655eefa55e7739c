package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuestionType identifies the shape of a generated question.
type QuestionType string

// Supported question types.
const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
)

// TestSource records which path produced a generated test.
type TestSource string

// Possible test sources.
const (
	TestSourceWorkflow TestSource = "workflow"
	TestSourceMock     TestSource = "mock"
)

// Common validation errors for GeneratedTest.
var (
	ErrEmptyTestID     = errors.New("test ID cannot be empty")
	ErrEmptyTestUserID = errors.New("test user ID cannot be empty")
	ErrEmptyTestName   = errors.New("test name cannot be empty")
	ErrNoQuestions     = errors.New("test must contain at least one question")
	ErrInvalidSource   = errors.New("invalid test source")
)

// Question is a single question within a generated test.
// Options is empty for short-answer questions.
type Question struct {
	ID            int          `json:"id"`
	Type          QuestionType `json:"type"`
	Question      string       `json:"question"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correctAnswer"`
	Topic         string       `json:"topic,omitempty"`
}

// GeneratedTest represents a test produced for a user, either by the
// remote workflow service or by the local mock generator.
type GeneratedTest struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Name            string     `json:"name"`
	ExamType        string     `json:"exam_type"`
	Difficulty      string     `json:"difficulty"`
	DurationMinutes int        `json:"duration_minutes"`
	SyllabusText    string     `json:"syllabus_text"`
	Questions       []Question `json:"questions"`
	Source          TestSource `json:"source"`
	CreatedAt       time.Time  `json:"created_at"`
}

// NewGeneratedTest creates a GeneratedTest with a fresh ID and timestamp.
// Returns an error if validation fails.
func NewGeneratedTest(
	userID uuid.UUID,
	name string,
	questions []Question,
	source TestSource,
) (*GeneratedTest, error) {
	test := &GeneratedTest{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Questions: questions,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}

	if err := test.Validate(); err != nil {
		return nil, err
	}

	return test, nil
}

// Validate checks if the GeneratedTest has valid data.
func (t *GeneratedTest) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTestID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTestUserID
	}

	if t.Name == "" {
		return ErrEmptyTestName
	}

	if len(t.Questions) == 0 {
		return ErrNoQuestions
	}

	if t.Source != TestSourceWorkflow && t.Source != TestSourceMock {
		return ErrInvalidSource
	}

	return nil
}
