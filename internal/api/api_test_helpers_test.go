package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/opus"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// stubRunner always fails, forcing the services down their local
// fallback paths.
type stubRunner struct {
	err error
	raw opus.RawResults
}

func (s *stubRunner) RunWorkflow(
	_ context.Context,
	_ string,
	_ map[string]any,
	_ time.Duration,
) (opus.RawResults, error) {
	return s.raw, s.err
}

type stubTestStore struct {
	tests map[uuid.UUID]*domain.GeneratedTest
}

func (s *stubTestStore) CreateTest(_ context.Context, test *domain.GeneratedTest) error {
	if s.tests == nil {
		s.tests = map[uuid.UUID]*domain.GeneratedTest{}
	}
	s.tests[test.ID] = test
	return nil
}

func (s *stubTestStore) GetTest(_ context.Context, id uuid.UUID) (*domain.GeneratedTest, error) {
	if test, ok := s.tests[id]; ok {
		return test, nil
	}
	return nil, store.ErrTestNotFound
}

func (s *stubTestStore) GetSyllabusText(_ context.Context, id uuid.UUID) (string, error) {
	if test, ok := s.tests[id]; ok {
		return test.SyllabusText, nil
	}
	return "", store.ErrTestNotFound
}

type stubResultStore struct {
	results map[uuid.UUID]*domain.TestResult
	stats   store.DashboardStats
	profile store.ProfileStats
	err     error
}

func (s *stubResultStore) SaveResult(_ context.Context, result *domain.TestResult) error {
	if s.results == nil {
		s.results = map[uuid.UUID]*domain.TestResult{}
	}
	s.results[result.ID] = result
	return nil
}

func (s *stubResultStore) GetResult(_ context.Context, id uuid.UUID) (*domain.TestResult, error) {
	if result, ok := s.results[id]; ok {
		return result, nil
	}
	return nil, store.ErrResultNotFound
}

func (s *stubResultStore) DashboardStats(_ context.Context, _ uuid.UUID) (*store.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.stats, nil
}

func (s *stubResultStore) ProfileStats(_ context.Context, _ uuid.UUID) (*store.ProfileStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &s.profile, nil
}

type stubTopicStore struct {
	topics []*domain.RecommendedTopic
}

func (s *stubTopicStore) ListRecommended(_ context.Context, _ uuid.UUID) ([]*domain.RecommendedTopic, error) {
	if s.topics == nil {
		return []*domain.RecommendedTopic{}, nil
	}
	return s.topics, nil
}

func (s *stubTopicStore) GetByID(_ context.Context, id, _ uuid.UUID) (*domain.RecommendedTopic, error) {
	for _, topic := range s.topics {
		if topic.ID == id {
			return topic, nil
		}
	}
	return nil, store.ErrTopicNotFound
}

type stubFlashcardStore struct {
	cards []*domain.Flashcard
}

func (s *stubFlashcardStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.Flashcard, error) {
	if s.cards == nil {
		return []*domain.Flashcard{}, nil
	}
	return s.cards, nil
}

type stubMasteryStore struct {
	records []*domain.TopicMastery
}

func (s *stubMasteryStore) ListByUser(_ context.Context, _ uuid.UUID) ([]*domain.TopicMastery, error) {
	if s.records == nil {
		return []*domain.TopicMastery{}, nil
	}
	return s.records, nil
}

func testLogger() *slog.Logger {
	return slog.Default()
}
