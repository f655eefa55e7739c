package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mindcraftr/mindcraftr-api/internal/config"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/opus"
	"github.com/mindcraftr/mindcraftr-api/internal/platform/postgres"
	"github.com/mindcraftr/mindcraftr-api/internal/service"
	"github.com/mindcraftr/mindcraftr-api/internal/store"
)

// application holds the shared dependencies of the server: configuration,
// logging, storage and the service layer.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	testStore      store.TestStore
	resultStore    store.ResultStore
	topicStore     store.TopicStore
	flashcardStore store.FlashcardStore
	masteryStore   store.MasteryStore

	generationService *service.GenerationService
	gradingService    *service.GradingService
}

// newApplication wires up stores, the Opus client and the services.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	testStore := postgres.NewPostgresTestStore(db, logger)
	resultStore := postgres.NewPostgresResultStore(db, logger)
	topicStore := postgres.NewPostgresTopicStore(db, logger)
	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)
	masteryStore := postgres.NewPostgresMasteryStore(db, logger)

	opusClient, err := opus.NewClient(cfg.Opus, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus client: %w", err)
	}

	generationService, err := service.NewGenerationService(opusClient, testStore, cfg.Opus, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	gradingService, err := service.NewGradingService(opusClient, testStore, resultStore, cfg.Opus, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create grading service: %w", err)
	}

	return &application{
		config:            cfg,
		logger:            logger,
		db:                db,
		testStore:         testStore,
		resultStore:       resultStore,
		topicStore:        topicStore,
		flashcardStore:    flashcardStore,
		masteryStore:      masteryStore,
		generationService: generationService,
		gradingService:    gradingService,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
