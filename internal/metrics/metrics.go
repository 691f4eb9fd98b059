// Package metrics exposes Prometheus metrics of the quiz games.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/times-tables-bot/internal/domain/entities"
)

var (
	// Counter for started games
	gamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_games_started_total",
			Help: "Total number of started games",
		},
	)

	// Counter for finished and aborted games
	gamesEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_games_ended_total",
			Help: "Total number of ended games",
		},
		[]string{"status"}, // status: finished/aborted
	)

	// Counter for answers by outcome
	answers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Total number of answered or timed out questions",
		},
		[]string{"outcome"}, // outcome: correct/incorrect/timeout
	)

	// Histogram for final scores
	scores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quiz_game_score_percent",
			Help:    "Final score of finished games in percent",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// Gauge for games in progress
	activeGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_active_games_current",
			Help: "Current number of running games",
		},
	)
)

// Observer records game lifecycle events as Prometheus metrics.
type Observer struct{}

func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) GameStarted(int) {
	gamesStarted.Inc()
	activeGames.Inc()
}

func (o *Observer) AnswerRecorded(outcome string) {
	answers.WithLabelValues(outcome).Inc()
}

func (o *Observer) GameFinished(s entities.Summary) {
	gamesEnded.WithLabelValues("finished").Inc()
	scores.Observe(s.Percentage)
	activeGames.Dec()
}

func (o *Observer) GameAborted() {
	gamesEnded.WithLabelValues("aborted").Inc()
	activeGames.Dec()
}

// NewRouter returns the router serving /metrics and /healthz.
func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

// Serve exposes the router on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics endpoint listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
