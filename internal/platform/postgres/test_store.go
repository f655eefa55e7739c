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

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresTestStore implements the store.TestStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTestStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTestStore creates a new PostgreSQL implementation of the
// TestStore interface. The database handle is managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTestStore(db store.DBTX, logger *slog.Logger) *PostgresTestStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTestStore{
		db:     db,
		logger: logger.With(slog.String("component", "test_store")),
	}
}

// Ensure PostgresTestStore implements store.TestStore
var _ store.TestStore = (*PostgresTestStore)(nil)

// CreateTest implements store.TestStore.CreateTest.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresTestStore) CreateTest(ctx context.Context, test *domain.GeneratedTest) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := test.Validate(); err != nil {
		log.Warn("test validation failed during create",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	questionsJSON, err := json.Marshal(test.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal test questions: %w", err)
	}

	query := `
		INSERT INTO generated_tests
			(id, user_id, name, exam_type, difficulty, duration_minutes,
			 syllabus_text, questions, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		test.ID,
		test.UserID,
		test.Name,
		test.ExamType,
		test.Difficulty,
		test.DurationMinutes,
		test.SyllabusText,
		questionsJSON,
		test.Source,
		test.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during test creation",
				slog.String("error", err.Error()),
				slog.String("test_id", test.ID.String()),
				slog.String("user_id", test.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, test.UserID)
		}

		log.Error("failed to create test",
			slog.String("error", err.Error()),
			slog.String("test_id", test.ID.String()))
		return err
	}

	log.Info("test created successfully",
		slog.String("test_id", test.ID.String()),
		slog.String("source", string(test.Source)),
		slog.Int("question_count", len(test.Questions)))
	return nil
}

// GetTest implements store.TestStore.GetTest.
// Returns store.ErrTestNotFound if the test does not exist.
func (s *PostgresTestStore) GetTest(ctx context.Context, id uuid.UUID) (*domain.GeneratedTest, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, name, exam_type, difficulty, duration_minutes,
		       syllabus_text, questions, source, created_at
		FROM generated_tests
		WHERE id = $1
	`

	var test domain.GeneratedTest
	var questionsJSON []byte
	var source string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&test.ID,
		&test.UserID,
		&test.Name,
		&test.ExamType,
		&test.Difficulty,
		&test.DurationMinutes,
		&test.SyllabusText,
		&questionsJSON,
		&source,
		&test.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("test not found", slog.String("test_id", id.String()))
			return nil, store.ErrTestNotFound
		}
		log.Error("failed to get test by ID",
			slog.String("error", err.Error()),
			slog.String("test_id", id.String()))
		return nil, err
	}

	if err := json.Unmarshal(questionsJSON, &test.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal test questions: %w", err)
	}
	test.Source = domain.TestSource(source)

	return &test, nil
}

// GetSyllabusText implements store.TestStore.GetSyllabusText.
// Returns store.ErrTestNotFound if the test does not exist.
func (s *PostgresTestStore) GetSyllabusText(ctx context.Context, id uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT syllabus_text FROM generated_tests WHERE id = $1`

	var syllabus string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&syllabus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("test not found for syllabus lookup", slog.String("test_id", id.String()))
			return "", store.ErrTestNotFound
		}
		log.Error("failed to get syllabus text",
			slog.String("error", err.Error()),
			slog.String("test_id", id.String()))
		return "", err
	}

	return syllabus, nil
}
