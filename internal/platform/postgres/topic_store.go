package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mindcraftr/mindcraftr-api/internal/domain"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/logger"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// PostgresTopicStore implements the store.TopicStore interface using a
// PostgreSQL database as the storage backend.
type PostgresTopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTopicStore creates a new PostgreSQL implementation of the
// TopicStore interface. If logger is nil, a default logger will be used.
func NewPostgresTopicStore(db store.DBTX, logger *slog.Logger) *PostgresTopicStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTopicStore{
		db:     db,
		logger: logger.With(slog.String("component", "topic_store")),
	}
}

// Ensure PostgresTopicStore implements store.TopicStore
var _ store.TopicStore = (*PostgresTopicStore)(nil)

const topicColumns = `
	id, user_id, title, summary, key_concepts, common_pitfalls,
	example_title, example_code, example_explanation
`

// ListRecommended implements store.TopicStore.ListRecommended.
func (s *PostgresTopicStore) ListRecommended(ctx context.Context, userID uuid.UUID) ([]*domain.RecommendedTopic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + topicColumns + `
		FROM recommended_topics
		WHERE user_id = $1
		ORDER BY title
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list recommended topics",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	topics := []*domain.RecommendedTopic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, err
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return topics, nil
}

// GetByID implements store.TopicStore.GetByID.
// Returns store.ErrTopicNotFound if the topic does not exist or belongs
// to a different user.
func (s *PostgresTopicStore) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.RecommendedTopic, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + topicColumns + `
		FROM recommended_topics
		WHERE id = $1 AND user_id = $2
	`

	topic, err := scanTopic(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("topic not found",
				slog.String("topic_id", id.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTopicNotFound
		}
		log.Error("failed to get topic by ID",
			slog.String("error", err.Error()),
			slog.String("topic_id", id.String()))
		return nil, err
	}

	return topic, nil
}

// rowScanner abstracts over *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (*domain.RecommendedTopic, error) {
	var topic domain.RecommendedTopic
	var conceptsJSON, pitfallsJSON []byte

	err := row.Scan(
		&topic.ID,
		&topic.UserID,
		&topic.Title,
		&topic.Summary,
		&conceptsJSON,
		&pitfallsJSON,
		&topic.Example.Title,
		&topic.Example.Code,
		&topic.Example.Explanation,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(conceptsJSON, &topic.KeyConcepts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal key concepts: %w", err)
	}
	if err := json.Unmarshal(pitfallsJSON, &topic.CommonPitfalls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal common pitfalls: %w", err)
	}

	return &topic, nil
}
