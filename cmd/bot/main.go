package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/config"
	"github.com/aliskhannn/dmv-study-bot/internal/delivery/telegram"
	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
	"github.com/aliskhannn/dmv-study-bot/internal/infra/postgres"
	pgrepository "github.com/aliskhannn/dmv-study-bot/internal/infra/postgres/repository"
	applogger "github.com/aliskhannn/dmv-study-bot/internal/logger"
	"github.com/aliskhannn/dmv-study-bot/internal/metrics"
	"github.com/aliskhannn/dmv-study-bot/internal/repository"
	"github.com/aliskhannn/dmv-study-bot/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := applogger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load the question pool once, it is read-only afterwards.
	questionRepo, err := loadQuestionRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to load questions", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(reg)

	studyService, err := service.NewStudyService(ctx, questionRepo, service.Limits{
		FlashcardsDefault: cfg.Flashcards.DefaultSize,
		FlashcardsMax:     cfg.Flashcards.MaxSize,
		PracticeDefault:   cfg.Practice.DefaultSize,
		PracticeMax:       cfg.Practice.MaxSize,
		Choices:           cfg.Practice.Choices,
		ShowExplanation:   cfg.Practice.ShowExplanation,
		LearnPageSize:     cfg.Learn.PageSize,
	}, logger, recorder)
	if err != nil {
		logger.Fatal("failed to create study service", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}
	bot.Debug = cfg.Bot.Debug

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "flashcards",
			Description: "Study a flashcard deck (usage: /flashcards 25)",
		},
		{
			Command:     "practice",
			Description: "Multiple choice practice (usage: /practice 10)",
		},
		{
			Command:     "learn",
			Description: "Search questions and answers (usage: /learn right of way)",
		},
		{
			Command:     "explain",
			Description: "Show or hide explanations during practice",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		logger.Warn("failed to set bot commands", zap.Error(err))
	}

	logger.Info("authorized on account", zap.String("username", bot.Self.UserName))

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, logger); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	handler := telegram.NewHandler(bot, logger, studyService, recorder, telegram.Options{
		PollTimeout: cfg.Bot.PollTimeout,
		RateLimit:   cfg.Bot.RateLimit,
		RateBurst:   cfg.Bot.RateBurst,
	})
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("telegram handler failed", zap.Error(err))
		return
	}

	logger.Info("shutdown signal received")
}

func loadQuestionRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*repository.QuestionRepository, error) {
	var (
		questions []*entities.Question
		err       error
	)

	switch cfg.Dataset.Source {
	case config.SourcePostgres:
		questions, err = loadFromPostgres(ctx, cfg.DB)
	default:
		questions, err = repository.LoadQuestions(cfg.Dataset.Path)
	}
	if err != nil {
		return nil, err
	}

	repo, err := repository.NewQuestionRepository(questions)
	if err != nil {
		return nil, err
	}

	if repo.Skipped() > 0 {
		logger.Warn("invalid questions skipped", zap.Int("skipped", repo.Skipped()))
	}
	logger.Info("dataset loaded",
		zap.String("source", cfg.Dataset.Source),
		zap.Int("questions", repo.Count()),
	)

	return repo, nil
}

// loadFromPostgres reads the questions table in one read-only snapshot and closes the pool.
func loadFromPostgres(ctx context.Context, db config.DB) ([]*entities.Question, error) {
	dsn, err := db.DSN()
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(db.MaxConnections),
		MaxConnLifetime: db.MaxConnLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	var questions []*entities.Question
	err = postgres.NewTransactor(pool).WithinReadOnlyTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		repo := pgrepository.NewQuestionRepository(tx)

		count, err := repo.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrDatasetEmpty
		}

		questions, err = repo.GetAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load questions from postgres: %w", err)
	}

	return questions, nil
}
