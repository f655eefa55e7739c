package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/config"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/opus"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// WorkflowRunner abstracts the Opus client for the adapters. Satisfied by
// *opus.Client.
type WorkflowRunner interface {
	RunWorkflow(ctx context.Context, workflowID string, inputs map[string]any, maxWait time.Duration) (opus.RawResults, error)
}

const defaultNumQuestions = 10

// durationTiers maps requested test lengths onto the labels the
// generation workflow was authored against. Unlisted lengths fall back to
// "30 minutes".
var durationTiers = map[int]string{
	15:  "15 minutes",
	30:  "30 minutes",
	45:  "45 minutes",
	60:  "60 minutes",
	90:  "90 minutes",
	120: "120 minutes",
}

// difficultyLabels normalizes caller-supplied difficulty onto the three
// labels the workflow accepts. Unknown values fall back to "Medium".
var difficultyLabels = map[string]string{
	"easy":   "Easy",
	"medium": "Medium",
	"hard":   "Hard",
}

// mockTopics is the fixed topic rotation used by the local mock
// generator.
var mockTopics = []string{
	"Reading Comprehension",
	"Quantitative Reasoning",
	"Logical Analysis",
	"Data Interpretation",
	"Vocabulary in Context",
}

// GenerateTestRequest carries the caller's test parameters.
type GenerateTestRequest struct {
	ExamName        string
	ExamType        string
	SyllabusText    string
	Difficulty      string
	DurationMinutes int
	NumQuestions    int
	QuestionFormat  string
}

// GenerationService produces tests, preferring the Opus generation
// workflow and falling back to a deterministic local mock generator.
type GenerationService struct {
	runner     WorkflowRunner
	testStore  store.TestStore
	workflowID string
	maxWait    time.Duration
	logger     *slog.Logger
}

// NewGenerationService creates a GenerationService.
func NewGenerationService(
	runner WorkflowRunner,
	testStore store.TestStore,
	cfg config.OpusConfig,
	log *slog.Logger,
) (*GenerationService, error) {
	if runner == nil {
		return nil, errors.New("workflow runner cannot be nil")
	}
	if testStore == nil {
		return nil, errors.New("test store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GenerationWorkflowID == "" {
		return nil, errors.New("generation workflow ID cannot be empty")
	}

	maxWait := time.Duration(cfg.MaxWaitSeconds) * time.Second

	return &GenerationService{
		runner:     runner,
		testStore:  testStore,
		workflowID: cfg.GenerationWorkflowID,
		maxWait:    maxWait,
		logger:     log.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateTest produces a test for the user. The workflow path is tried
// first; any failure there, including an empty question extraction, drops
// to the local mock generator. The returned test is persisted
// best-effort: a storage failure is logged but the test is still handed
// to the caller.
func (s *GenerationService) GenerateTest(
	ctx context.Context,
	userID uuid.UUID,
	req GenerateTestRequest,
) (*domain.GeneratedTest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.NumQuestions <= 0 {
		req.NumQuestions = defaultNumQuestions
	}
	if req.ExamName == "" {
		req.ExamName = "Practice Test"
	}

	questions, source := s.generateQuestions(ctx, log, req)

	test, err := domain.NewGeneratedTest(userID, req.ExamName, questions, source)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble generated test: %w", err)
	}
	test.ExamType = req.ExamType
	test.Difficulty = difficultyLabel(req.Difficulty)
	test.DurationMinutes = req.DurationMinutes
	test.SyllabusText = req.SyllabusText

	if err := s.testStore.CreateTest(ctx, test); err != nil {
		log.Error("failed to persist generated test, returning it anyway",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
	}

	return test, nil
}

// generateQuestions runs the workflow and falls back to the mock
// generator when the run fails or yields nothing.
func (s *GenerationService) generateQuestions(
	ctx context.Context,
	log *slog.Logger,
	req GenerateTestRequest,
) ([]domain.Question, domain.TestSource) {
	inputs := map[string]any{
		"Exam Type":           req.ExamType,
		"Test Duration":       durationLabel(req.DurationMinutes),
		"Exam Name":           req.ExamName,
		"Syllabus Content":    req.SyllabusText,
		"Difficulty Level":    difficultyLabel(req.Difficulty),
		"Number of Questions": req.NumQuestions,
	}

	raw, err := s.runner.RunWorkflow(ctx, s.workflowID, inputs, s.maxWait)
	if err != nil {
		log.Warn("generation workflow failed, using mock questions",
			slog.String("error", err.Error()))
		return s.mockQuestions(req), domain.TestSourceMock
	}

	questions := opus.ExtractQuestions(raw)
	if len(questions) == 0 {
		log.Warn("generation workflow returned no questions, using mock questions")
		return s.mockQuestions(req), domain.TestSourceMock
	}

	log.Info("generation workflow produced questions",
		slog.Int("question_count", len(questions)))
	return questions, domain.TestSourceWorkflow
}

// mockQuestions builds a deterministic question set so the application
// remains usable without the workflow service. Topics rotate through a
// fixed list; the question format decides multiple-choice versus
// short-answer.
func (s *GenerationService) mockQuestions(req GenerateTestRequest) []domain.Question {
	difficulty := difficultyLabel(req.Difficulty)

	questions := make([]domain.Question, 0, req.NumQuestions)
	for i := 0; i < req.NumQuestions; i++ {
		topic := mockTopics[i%len(mockTopics)]
		number := i + 1

		multipleChoice := false
		switch req.QuestionFormat {
		case "objective":
			multipleChoice = true
		case "subjective":
			multipleChoice = false
		default:
			multipleChoice = i%2 == 0
		}

		q := domain.Question{
			ID:    number,
			Topic: topic,
		}
		if multipleChoice {
			q.Type = domain.QuestionTypeMultipleChoice
			q.Question = fmt.Sprintf("Question %d (%s, %s): which option best applies to %s?",
				number, req.ExamName, difficulty, topic)
			q.Options = []string{
				fmt.Sprintf("a) First option for %s", topic),
				fmt.Sprintf("b) Second option for %s", topic),
				fmt.Sprintf("c) Third option for %s", topic),
				fmt.Sprintf("d) Fourth option for %s", topic),
			}
			q.CorrectAnswer = "b"
		} else {
			q.Type = domain.QuestionTypeShortAnswer
			q.Question = fmt.Sprintf("Question %d (%s, %s): briefly explain a key idea of %s.",
				number, req.ExamName, difficulty, topic)
			q.CorrectAnswer = fmt.Sprintf("A concise explanation of %s", topic)
		}

		questions = append(questions, q)
	}

	return questions
}

func durationLabel(minutes int) string {
	if label, ok := durationTiers[minutes]; ok {
		return label
	}
	return "30 minutes"
}

func difficultyLabel(difficulty string) string {
	if label, ok := difficultyLabels[normalizeKey(difficulty)]; ok {
		return label
	}
	return "Medium"
}
