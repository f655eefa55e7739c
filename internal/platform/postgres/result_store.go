package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// PostgresResultStore implements the store.ResultStore interface using a
// PostgreSQL database as the storage backend.
type PostgresResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResultStore creates a new PostgreSQL implementation of the
// ResultStore interface. The database handle is managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresResultStore(db store.DBTX, logger *slog.Logger) *PostgresResultStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "result_store")),
	}
}

// Ensure PostgresResultStore implements store.ResultStore
var _ store.ResultStore = (*PostgresResultStore)(nil)

// SaveResult implements store.ResultStore.SaveResult.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresResultStore) SaveResult(ctx context.Context, result *domain.TestResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("result validation failed during save",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return err
	}

	strengthsJSON, err := json.Marshal(result.Strengths)
	if err != nil {
		return fmt.Errorf("failed to marshal strengths: %w", err)
	}
	weaknessesJSON, err := json.Marshal(result.Weaknesses)
	if err != nil {
		return fmt.Errorf("failed to marshal weaknesses: %w", err)
	}

	// TestID is NULL for results whose source test was never persisted,
	// such as a submission graded after a mock generation round.
	var testID any
	if result.TestID != uuid.Nil {
		testID = result.TestID
	}

	query := `
		INSERT INTO test_results
			(id, user_id, test_id, test_name, score, correct_answers,
			 total_questions, questions_answered, duration_seconds,
			 strengths, weaknesses, summary, graded_by, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.UserID,
		testID,
		result.TestName,
		result.Score,
		result.CorrectAnswers,
		result.TotalQuestions,
		result.QuestionsAnswered,
		result.DurationSeconds,
		strengthsJSON,
		weaknessesJSON,
		result.Summary,
		result.GradedBy,
		result.CompletedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during result save",
				slog.String("error", err.Error()),
				slog.String("result_id", result.ID.String()),
				slog.String("user_id", result.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, result.UserID)
		}

		log.Error("failed to save result",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return err
	}

	log.Info("result saved successfully",
		slog.String("result_id", result.ID.String()),
		slog.Int("score", result.Score),
		slog.String("graded_by", string(result.GradedBy)))
	return nil
}

// GetResult implements store.ResultStore.GetResult.
// Returns store.ErrResultNotFound if the result does not exist.
func (s *PostgresResultStore) GetResult(ctx context.Context, id uuid.UUID) (*domain.TestResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, test_id, test_name, score, correct_answers,
		       total_questions, questions_answered, duration_seconds,
		       strengths, weaknesses, summary, graded_by, completed_at
		FROM test_results
		WHERE id = $1
	`

	var result domain.TestResult
	var testID uuid.NullUUID
	var strengthsJSON, weaknessesJSON []byte
	var gradedBy string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&result.ID,
		&result.UserID,
		&testID,
		&result.TestName,
		&result.Score,
		&result.CorrectAnswers,
		&result.TotalQuestions,
		&result.QuestionsAnswered,
		&result.DurationSeconds,
		&strengthsJSON,
		&weaknessesJSON,
		&result.Summary,
		&gradedBy,
		&result.CompletedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("result not found", slog.String("result_id", id.String()))
			return nil, store.ErrResultNotFound
		}
		log.Error("failed to get result by ID",
			slog.String("error", err.Error()),
			slog.String("result_id", id.String()))
		return nil, err
	}

	if testID.Valid {
		result.TestID = testID.UUID
	}
	if err := json.Unmarshal(strengthsJSON, &result.Strengths); err != nil {
		return nil, fmt.Errorf("failed to unmarshal strengths: %w", err)
	}
	if err := json.Unmarshal(weaknessesJSON, &result.Weaknesses); err != nil {
		return nil, fmt.Errorf("failed to unmarshal weaknesses: %w", err)
	}
	result.GradedBy = domain.GradedBy(gradedBy)

	return &result, nil
}

// DashboardStats implements store.ResultStore.DashboardStats. The
// aggregates are computed in a single query; COALESCE keeps the scan
// well-defined when the user has no results.
func (s *PostgresResultStore) DashboardStats(ctx context.Context, userID uuid.UUID) (*store.DashboardStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COUNT(id),
		       COALESCE(AVG(score), 0),
		       COALESCE(MAX(score), 0),
		       COALESCE(SUM(questions_answered), 0)
		FROM test_results
		WHERE user_id = $1
	`

	var stats store.DashboardStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TestsTaken,
		&stats.AverageScore,
		&stats.HighestScore,
		&stats.QuestionsAnswered,
	)
	if err != nil {
		log.Error("failed to compute dashboard stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &stats, nil
}

// ProfileStats implements store.ResultStore.ProfileStats.
func (s *PostgresResultStore) ProfileStats(ctx context.Context, userID uuid.UUID) (*store.ProfileStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT COALESCE(SUM(duration_seconds), 0),
		       COUNT(id),
		       COALESCE(MAX(score), 0)
		FROM test_results
		WHERE user_id = $1
	`

	var stats store.ProfileStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalStudySeconds,
		&stats.TestsCompleted,
		&stats.HighestScore,
	)
	if err != nil {
		log.Error("failed to compute profile stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &stats, nil
}
