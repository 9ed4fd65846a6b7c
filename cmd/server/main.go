// Package main is the entry point for the Lingueefy review engine server.
// It wires configuration, logging, the PostgreSQL stores, the scheduling and
// gamification services, and the HTTP API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/lingueefy/review-engine/internal/api"
	"github.com/lingueefy/review-engine/internal/api/middleware"
	"github.com/lingueefy/review-engine/internal/config"
	"github.com/lingueefy/review-engine/internal/domain/srs"
	"github.com/lingueefy/review-engine/internal/events"
	"github.com/lingueefy/review-engine/internal/platform/logger"
	"github.com/lingueefy/review-engine/internal/platform/postgres"
	"github.com/lingueefy/review-engine/internal/service/auth"
	"github.com/lingueefy/review-engine/internal/service/progress"
	"github.com/lingueefy/review-engine/internal/service/review"
	"github.com/lingueefy/review-engine/internal/service/vocab"
)

// Connection pool and shutdown settings.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := postgres.MigrateUp(db); err != nil {
		return err
	}
	log.Info("database migrations applied")

	handler, err := buildHandler(cfg, db, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func buildHandler(cfg *config.Config, db *sql.DB, log *slog.Logger) (http.Handler, error) {
	learnerStore := postgres.NewPostgresLearnerStore(db, log)
	deckStore := postgres.NewPostgresDeckStore(db, log)
	cardStore := postgres.NewPostgresCardStore(db, log)
	vocabStore := postgres.NewPostgresVocabStore(db, log)
	progressStore := postgres.NewPostgresProgressStore(db, log)

	emitter := events.NewInMemoryEmitter(log)
	scheduler := srs.NewService()

	progressService, err := progress.NewService(db, progressStore, deckStore, vocabStore, emitter, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress service: %w", err)
	}

	reviewService, err := review.NewService(db, deckStore, cardStore, scheduler, progressService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	vocabService, err := vocab.NewService(vocabStore, scheduler, progressService, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create vocab service: %w", err)
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authService, err := auth.NewService(learnerStore, tokenService, auth.NewBcryptVerifier(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	handlers := api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		Deck:     api.NewDeckHandler(reviewService),
		Vocab:    api.NewVocabHandler(vocabService),
		Progress: api.NewProgressHandler(progressService),
	}

	return api.NewRouter(handlers, middleware.NewAuthMiddleware(tokenService)), nil
}
