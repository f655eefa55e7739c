package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
)

// TestStore defines persistence for generated tests.
type TestStore interface {
	// CreateTest saves a newly generated test.
	// Returns ErrInvalidEntity if the owning user does not exist.
	CreateTest(ctx context.Context, test *domain.GeneratedTest) error

	// GetTest retrieves a generated test by ID.
	// Returns ErrTestNotFound if the test does not exist.
	GetTest(ctx context.Context, id uuid.UUID) (*domain.GeneratedTest, error)

	// GetSyllabusText returns the syllabus text stored with a generated
	// test. Returns ErrTestNotFound if the test does not exist.
	GetSyllabusText(ctx context.Context, id uuid.UUID) (string, error)
}
