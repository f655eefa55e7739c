package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GradedBy records which path graded a submission.
type GradedBy string

// Possible grading paths.
const (
	GradedByWorkflow GradedBy = "workflow"
	GradedByLocal    GradedBy = "local"
)

// Common validation errors for TestResult.
var (
	ErrEmptyResultID       = errors.New("result ID cannot be empty")
	ErrEmptyResultUserID   = errors.New("result user ID cannot be empty")
	ErrEmptyResultTestName = errors.New("result test name cannot be empty")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
	ErrInvalidGradedBy     = errors.New("invalid graded-by value")
)

// TestResult is a graded test submission. Score is an integer percentage.
// Strengths, Weaknesses and Summary come from the grading workflow; the
// local fallback grader leaves them at their defaults.
type TestResult struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	TestID            uuid.UUID `json:"test_id"`
	TestName          string    `json:"test_name"`
	Score             int       `json:"score"`
	CorrectAnswers    int       `json:"correct_answers"`
	TotalQuestions    int       `json:"total_questions"`
	QuestionsAnswered int       `json:"questions_answered"`
	DurationSeconds   int       `json:"duration_seconds"`
	Strengths         []string  `json:"strengths"`
	Weaknesses        []string  `json:"weaknesses"`
	Summary           string    `json:"summary"`
	GradedBy          GradedBy  `json:"graded_by"`
	CompletedAt       time.Time `json:"completed_at"`
}

// NewTestResult creates a TestResult with a fresh ID and timestamp.
// Strengths and Weaknesses default to empty slices so the JSON form is
// always a list, never null.
func NewTestResult(userID, testID uuid.UUID, testName string) *TestResult {
	return &TestResult{
		ID:          uuid.New(),
		UserID:      userID,
		TestID:      testID,
		TestName:    testName,
		Strengths:   []string{},
		Weaknesses:  []string{},
		CompletedAt: time.Now().UTC(),
	}
}

// Validate checks if the TestResult has valid data.
func (r *TestResult) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyResultID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyResultUserID
	}

	if r.TestName == "" {
		return ErrEmptyResultTestName
	}

	if r.Score < 0 || r.Score > 100 {
		return ErrInvalidScore
	}

	if r.GradedBy != GradedByWorkflow && r.GradedBy != GradedByLocal {
		return ErrInvalidGradedBy
	}

	return nil
}
