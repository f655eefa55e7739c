package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
)

// DashboardStats aggregates a user's test results for the dashboard.
// TestsTaken of zero means the user has no results yet; the remaining
// fields are undefined in that case.
type DashboardStats struct {
	TestsTaken        int
	AverageScore      float64
	HighestScore      int
	QuestionsAnswered int
}

// ProfileStats aggregates a user's study activity for the profile page.
type ProfileStats struct {
	TotalStudySeconds int
	TestsCompleted    int
	HighestScore      int
}

// ResultStore defines persistence and aggregate queries for test results.
type ResultStore interface {
	// SaveResult appends a graded test result.
	// Returns ErrInvalidEntity if the owning user does not exist.
	SaveResult(ctx context.Context, result *domain.TestResult) error

	// GetResult retrieves a test result by ID.
	// Returns ErrResultNotFound if the result does not exist.
	GetResult(ctx context.Context, id uuid.UUID) (*domain.TestResult, error)

	// DashboardStats computes aggregate statistics over the user's results.
	DashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error)

	// ProfileStats computes study-time and completion statistics.
	ProfileStats(ctx context.Context, userID uuid.UUID) (*ProfileStats, error)
}
