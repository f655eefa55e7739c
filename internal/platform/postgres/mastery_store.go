package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// PostgresMasteryStore implements the store.MasteryStore interface using
// a PostgreSQL database as the storage backend.
type PostgresMasteryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMasteryStore creates a new PostgreSQL implementation of the
// MasteryStore interface. If logger is nil, a default logger will be
// used.
func NewPostgresMasteryStore(db store.DBTX, logger *slog.Logger) *PostgresMasteryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMasteryStore{
		db:     db,
		logger: logger.With(slog.String("component", "mastery_store")),
	}
}

// Ensure PostgresMasteryStore implements store.MasteryStore
var _ store.MasteryStore = (*PostgresMasteryStore)(nil)

// ListByUser implements store.MasteryStore.ListByUser.
func (s *PostgresMasteryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.TopicMastery, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT topic_name, mastery_score
		FROM topic_mastery
		WHERE user_id = $1
		ORDER BY mastery_score DESC, topic_name
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list topic mastery",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.TopicMastery{}
	for rows.Next() {
		var record domain.TopicMastery
		if err := rows.Scan(&record.Topic, &record.Score); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
