package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/config"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/opus"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// fakeRunner is a scripted WorkflowRunner.
type fakeRunner struct {
	raw           opus.RawResults
	err           error
	calls         int
	gotWorkflowID string
	gotInputs     map[string]any
}

func (f *fakeRunner) RunWorkflow(
	_ context.Context,
	workflowID string,
	inputs map[string]any,
	_ time.Duration,
) (opus.RawResults, error) {
	f.calls++
	f.gotWorkflowID = workflowID
	f.gotInputs = inputs
	return f.raw, f.err
}

// fakeTestStore is an in-memory store.TestStore.
type fakeTestStore struct {
	created    []*domain.GeneratedTest
	createErr  error
	syllabus   string
	syllabusOK bool
}

func (f *fakeTestStore) CreateTest(_ context.Context, test *domain.GeneratedTest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, test)
	return nil
}

func (f *fakeTestStore) GetTest(_ context.Context, id uuid.UUID) (*domain.GeneratedTest, error) {
	for _, test := range f.created {
		if test.ID == id {
			return test, nil
		}
	}
	return nil, store.ErrTestNotFound
}

func (f *fakeTestStore) GetSyllabusText(_ context.Context, _ uuid.UUID) (string, error) {
	if !f.syllabusOK {
		return "", store.ErrTestNotFound
	}
	return f.syllabus, nil
}

// fakeResultStore is an in-memory store.ResultStore.
type fakeResultStore struct {
	saved   []*domain.TestResult
	saveErr error
}

func (f *fakeResultStore) SaveResult(_ context.Context, result *domain.TestResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeResultStore) GetResult(_ context.Context, id uuid.UUID) (*domain.TestResult, error) {
	for _, result := range f.saved {
		if result.ID == id {
			return result, nil
		}
	}
	return nil, store.ErrResultNotFound
}

func (f *fakeResultStore) DashboardStats(_ context.Context, _ uuid.UUID) (*store.DashboardStats, error) {
	return &store.DashboardStats{}, nil
}

func (f *fakeResultStore) ProfileStats(_ context.Context, _ uuid.UUID) (*store.ProfileStats, error) {
	return &store.ProfileStats{}, nil
}

func testOpusConfig() config.OpusConfig {
	return config.OpusConfig{
		BaseURL:              "https://opus.test",
		ServiceKey:           "key",
		GenerationWorkflowID: "gen-wf",
		GradingWorkflowID:    "grade-wf",
		MaxWaitSeconds:       1,
	}
}

func testLogger() *slog.Logger {
	return slog.Default()
}
