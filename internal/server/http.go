package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnsphere/question-bank/internal/auth"
	"github.com/learnsphere/question-bank/internal/bank"
	"github.com/learnsphere/question-bank/internal/config"
	"github.com/learnsphere/question-bank/internal/feedback"
	"github.com/learnsphere/question-bank/internal/logging"
	"github.com/learnsphere/question-bank/internal/quiz"
)

// Handlers bundles the route handlers the server mounts.
type Handlers struct {
	Bank     *bank.HTTPHandlers
	Quiz     *quiz.HTTPHandlers
	Feedback *feedback.HTTPHandlers
	Verifier *auth.Verifier
}

// NewHTTPServer wires routes (health, metrics, question banks) for the API
// service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redis *redis.Client, h Handlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.IntoContext(r.Context(), logger)
		if err := pingDependencies(ctx, pool, redis); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	// Quizzes
	mux.HandleFunc("POST /v1/quizzes", h.Quiz.Create)
	mux.HandleFunc("GET /v1/quizzes", h.Quiz.List)
	mux.HandleFunc("GET /v1/quizzes/{quizID}", h.Quiz.Get)
	mux.HandleFunc("PUT /v1/quizzes/{quizID}", h.Quiz.Update)
	mux.HandleFunc("DELETE /v1/quizzes/{quizID}", h.Quiz.Delete)

	// Quiz question banks
	mux.HandleFunc("POST /v1/quizzes/{quizID}/questions", h.Bank.CreateQuizQuestion)
	mux.HandleFunc("GET /v1/quizzes/{quizID}/questions", h.Bank.ListQuizQuestions)
	mux.HandleFunc("POST /v1/quizzes/{quizID}/questions/import", h.Bank.ImportQuizQuestions)
	mux.HandleFunc("GET /v1/quizzes/{quizID}/questions/export", h.Bank.ExportQuizQuestions)

	// Feedback banks
	mux.HandleFunc("POST /v1/quizzes/{quizID}/feedback-questions", h.Bank.CreateQuizFeedbackQuestion)
	mux.HandleFunc("GET /v1/quizzes/{quizID}/feedback-questions", h.Bank.ListQuizFeedbackQuestions)
	mux.HandleFunc("POST /v1/topics/{topicID}/feedback-questions", h.Bank.CreateTopicFeedbackQuestion)
	mux.HandleFunc("GET /v1/topics/{topicID}/feedback-questions", h.Bank.ListTopicFeedbackQuestions)

	// Questions by id, any bank
	mux.HandleFunc("GET /v1/questions/{questionID}", h.Bank.GetQuestion)
	mux.HandleFunc("PUT /v1/questions/{questionID}", h.Bank.UpdateQuestion)
	mux.HandleFunc("DELETE /v1/questions/{questionID}", h.Bank.DeleteQuestion)

	// Learner feedback responses
	mux.HandleFunc("POST /v1/feedback-responses", h.Feedback.Submit)

	var handler http.Handler = mux
	if h.Verifier != nil {
		handler = auth.Middleware(h.Verifier, logger)(mux)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: handler,
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redis *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	if err := redis.Ping(ctx).Err(); err != nil {
		return err
	}
	return nil
}
