package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/auth"
	"github.com/learnsphere/question-bank/internal/bank"
	"github.com/learnsphere/question-bank/internal/config"
	"github.com/learnsphere/question-bank/internal/db/repository"
	"github.com/learnsphere/question-bank/internal/feedback"
	"github.com/learnsphere/question-bank/internal/logging"
	"github.com/learnsphere/question-bank/internal/quiz"
	"github.com/learnsphere/question-bank/internal/server"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	verifier := auth.NewVerifier([]byte(cfg.Security.TokenSecret), cfg.Security.TokenIssuer)

	bankRepo := repository.NewBankRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)

	bankSvc := bank.NewService(bankRepo, bank.ServiceOptions{}, logger)
	listCache := bank.NewRedisListCache(redisClient, cfg.Cache.ListTTL)
	cachedBank := bank.NewCachedBank(bankSvc, listCache, logger)

	quizSvc := quiz.NewService(quizRepo, logger)
	feedbackSvc := feedback.NewService(feedbackRepo, bankSvc, logger)

	importer := bank.NewImporter(cachedBank, logger)

	handlers := server.Handlers{
		Bank:     bank.NewHTTPHandlers(cachedBank, importer, logger),
		Quiz:     quiz.NewHTTPHandlers(quizSvc, logger),
		Feedback: feedback.NewHTTPHandlers(feedbackSvc, logger),
		Verifier: verifier,
	}

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, handlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
