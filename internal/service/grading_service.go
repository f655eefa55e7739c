package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/config"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/opus"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// defaultSyllabus is submitted to the grading workflow when the test has
// no stored syllabus to grade against.
const defaultSyllabus = "General knowledge assessment"

// SubmittedAnswer is one answered question within a submission. The
// correct answer travels with the submission so the local fallback grader
// can score without a round trip to the test record.
type SubmittedAnswer struct {
	QuestionID    int    `json:"id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Topic         string `json:"topic,omitempty"`
}

// GradeSubmissionRequest carries a completed test submission.
type GradeSubmissionRequest struct {
	TestID          uuid.UUID
	TestName        string
	DurationSeconds int
	Answers         []SubmittedAnswer
}

// GradingService grades submissions, preferring the Opus grading workflow
// and falling back to local exact-match grading.
type GradingService struct {
	runner      WorkflowRunner
	testStore   store.TestStore
	resultStore store.ResultStore
	workflowID  string
	maxWait     time.Duration
	logger      *slog.Logger
}

// NewGradingService creates a GradingService.
func NewGradingService(
	runner WorkflowRunner,
	testStore store.TestStore,
	resultStore store.ResultStore,
	cfg config.OpusConfig,
	log *slog.Logger,
) (*GradingService, error) {
	if runner == nil {
		return nil, errors.New("workflow runner cannot be nil")
	}
	if testStore == nil {
		return nil, errors.New("test store cannot be nil")
	}
	if resultStore == nil {
		return nil, errors.New("result store cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GradingWorkflowID == "" {
		return nil, errors.New("grading workflow ID cannot be empty")
	}

	maxWait := time.Duration(cfg.MaxWaitSeconds) * time.Second

	return &GradingService{
		runner:      runner,
		testStore:   testStore,
		resultStore: resultStore,
		workflowID:  cfg.GradingWorkflowID,
		maxWait:     maxWait,
		logger:      log.With(slog.String("component", "grading_service")),
	}, nil
}

// GradeSubmission grades a submission. The workflow path is tried first;
// any failure there drops to local exact-match grading against the
// correct answers carried in the submission. The result is persisted
// best-effort: a storage failure is logged but the result is still handed
// to the caller.
func (s *GradingService) GradeSubmission(
	ctx context.Context,
	userID uuid.UUID,
	req GradeSubmissionRequest,
) (*domain.TestResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if req.TestName == "" {
		req.TestName = "Practice Test"
	}

	result := domain.NewTestResult(userID, req.TestID, req.TestName)
	result.DurationSeconds = req.DurationSeconds
	result.TotalQuestions = len(req.Answers)
	result.QuestionsAnswered = countAnswered(req.Answers)

	graded, err := s.gradeWithWorkflow(ctx, req)
	if err != nil {
		log.Warn("grading workflow failed, grading locally",
			slog.String("error", err.Error()))
		s.gradeLocally(result, req.Answers)
	} else {
		result.GradedBy = domain.GradedByWorkflow
		result.Score = clampScore(graded.Score)
		result.CorrectAnswers = graded.CorrectAnswers
		result.Strengths = graded.Strengths
		result.Weaknesses = graded.Weaknesses
		result.Summary = graded.Summary
		if graded.TotalQuestions > 0 {
			result.TotalQuestions = graded.TotalQuestions
		}
	}

	if err := s.resultStore.SaveResult(ctx, result); err != nil {
		log.Error("failed to persist test result, returning it anyway",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
	}

	return result, nil
}

// gradeWithWorkflow runs the grading workflow over the submission. The
// workflow's answer-sheet input is typed "str" in its schema, so the
// whole submission is serialized into one JSON string.
func (s *GradingService) gradeWithWorkflow(
	ctx context.Context,
	req GradeSubmissionRequest,
) (opus.GradingResult, error) {
	answerSheet, err := json.Marshal(map[string]any{
		"testName": req.TestName,
		"answers":  req.Answers,
	})
	if err != nil {
		return opus.GradingResult{}, fmt.Errorf("failed to marshal answer sheet: %w", err)
	}

	inputs := map[string]any{
		"Answer sheet and grading reference": string(answerSheet),
		"Syllabus Texts":                     s.syllabusFor(ctx, req.TestID),
	}

	raw, err := s.runner.RunWorkflow(ctx, s.workflowID, inputs, s.maxWait)
	if err != nil {
		return opus.GradingResult{}, err
	}

	return opus.ExtractGradingResult(raw), nil
}

// syllabusFor looks up the stored syllabus for the test. A missing test,
// a lookup failure or an empty syllabus all yield the generic default.
func (s *GradingService) syllabusFor(ctx context.Context, testID uuid.UUID) string {
	if testID == uuid.Nil {
		return defaultSyllabus
	}

	syllabus, err := s.testStore.GetSyllabusText(ctx, testID)
	if err != nil {
		if !store.IsNotFoundError(err) {
			s.logger.Warn("syllabus lookup failed, using default",
				slog.String("test_id", testID.String()),
				slog.String("error", err.Error()))
		}
		return defaultSyllabus
	}
	if syllabus == "" {
		return defaultSyllabus
	}
	return syllabus
}

// gradeLocally scores the submission by exact answer matching. The
// comparison trims whitespace and folds case; the score is the integer
// percentage, truncated toward zero.
func (s *GradingService) gradeLocally(result *domain.TestResult, answers []SubmittedAnswer) {
	correct := 0
	for _, answer := range answers {
		if answer.UserAnswer == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(answer.UserAnswer), strings.TrimSpace(answer.CorrectAnswer)) {
			correct++
		}
	}

	result.GradedBy = domain.GradedByLocal
	result.CorrectAnswers = correct
	if len(answers) > 0 {
		result.Score = correct * 100 / len(answers)
	}
}

func countAnswered(answers []SubmittedAnswer) int {
	answered := 0
	for _, answer := range answers {
		if answer.UserAnswer != "" {
			answered++
		}
	}
	return answered
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
