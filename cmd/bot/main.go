package main

import (
	"context"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/times-tables-bot/internal/config"
	"github.com/aliskhannn/times-tables-bot/internal/delivery/telegram"
	"github.com/aliskhannn/times-tables-bot/internal/infra/postgres"
	"github.com/aliskhannn/times-tables-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/times-tables-bot/internal/logger"
	"github.com/aliskhannn/times-tables-bot/internal/metrics"
	"github.com/aliskhannn/times-tables-bot/internal/service"
	"github.com/aliskhannn/times-tables-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "play",
			Description: "Choose tables and play",
		},
		{
			Command:     "stats",
			Description: "Show your recent games",
		},
		{
			Command:     "reset",
			Description: "Abort the current game",
		},
		{
			Command:     "help",
			Description: "How to play",
		},
	}

	_, err = bot.Request(tgbotapi.NewSetMyCommands(commands...))
	if err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database, repositories and services.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	resultRepo := repository.NewResultRepository(pool, postgres.NewTransactor(pool))
	resultService := service.NewResultService(resultRepo, lg, cfg.Results.HistoryLimit)

	games := storage.NewGameStorage()
	sweeper := service.NewSessionSweeper(games, cfg.Sessions.IdleTTL, cfg.Sessions.SweepSchedule, lg)

	handler := telegram.NewHandler(
		bot,
		lg,
		games,
		resultService,
		telegram.GameOptions{
			Quiz: service.QuizConfig{
				QuestionSeconds: cfg.Quiz.QuestionSeconds,
				TickInterval:    cfg.Quiz.TickInterval,
				FeedbackDelay:   cfg.Quiz.FeedbackDelay,
			},
			Tables:    cfg.Quiz.Tables,
			Scheduler: service.NewClockScheduler(),
			Generator: service.NewAnswerGenerator(rand.NewSource(time.Now().UnixNano())),
			Observer:  metrics.NewObserver(),
		},
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return handler.Run(gctx)
	})

	g.Go(func() error {
		return sweeper.Start(gctx)
	})

	if cfg.Metrics.Addr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.Metrics.Addr, lg)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		lg.Error("bot stopped with error", zap.Error(err))
	}

	lg.Info("shutdown signal received")
}
