package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

var ErrNoQuestionsAvailable = errors.New("no questions available")

// Study modes, used as metric labels.
const (
	ModeFlashcards = "flashcards"
	ModePractice   = "practice"
)

// Limits holds deck sizes and practice settings.
type Limits struct {
	FlashcardsDefault int
	FlashcardsMax     int
	PracticeDefault   int
	PracticeMax       int
	Choices           int
	ShowExplanation   bool
	LearnPageSize     int
}

// DefaultLimits returns the standard deck sizes.
func DefaultLimits() Limits {
	return Limits{
		FlashcardsDefault: 25,
		FlashcardsMax:     MaxFlashcards,
		PracticeDefault:   10,
		PracticeMax:       MaxPractice,
		Choices:           DefaultChoiceCount,
		ShowExplanation:   true,
		LearnPageSize:     5,
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveChoices(int, int, bool) {}
func (noopMetrics) SessionStarted(string)         {}
func (noopMetrics) AnswerRecorded(bool)           {}
func (noopMetrics) SearchPerformed()              {}

// StudyService creates study sessions over the read-only question pool.
type StudyService struct {
	pool      []*entities.Question
	generator *ChoiceGenerator
	limits    Limits
	logger    *zap.Logger
	metrics   StudyMetrics
	rng       Rand
}

// NewStudyService loads the question pool once and prepares the choice generator.
func NewStudyService(
	ctx context.Context,
	repo QuestionRepository,
	limits Limits,
	logger *zap.Logger,
	metrics StudyMetrics,
) (*StudyService, error) {
	pool, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}

	defaults := DefaultLimits()
	if limits.FlashcardsMax <= 0 || limits.FlashcardsMax > MaxFlashcards {
		limits.FlashcardsMax = defaults.FlashcardsMax
	}
	if limits.PracticeMax <= 0 || limits.PracticeMax > MaxPractice {
		limits.PracticeMax = defaults.PracticeMax
	}
	if limits.FlashcardsDefault <= 0 {
		limits.FlashcardsDefault = defaults.FlashcardsDefault
	}
	if limits.PracticeDefault <= 0 {
		limits.PracticeDefault = defaults.PracticeDefault
	}
	if limits.Choices < 2 {
		limits.Choices = defaults.Choices
	}
	if limits.LearnPageSize <= 0 {
		limits.LearnPageSize = defaults.LearnPageSize
	}

	rng := DefaultRand()
	logger.Info("question pool loaded",
		zap.Int("questions", len(pool)),
		zap.Int("flashcards_max", limits.FlashcardsMax),
		zap.Int("practice_max", limits.PracticeMax),
	)

	return &StudyService{
		pool:      pool,
		generator: NewChoiceGenerator(pool, WithRand(rng), WithObserver(metrics)),
		limits:    limits,
		logger:    logger,
		metrics:   metrics,
		rng:       rng,
	}, nil
}

// Limits returns the effective deck sizes.
func (s *StudyService) Limits() Limits { return s.limits }

// PoolSize returns the number of questions in the pool.
func (s *StudyService) PoolSize() int { return len(s.pool) }

// StartFlashcards builds a new flashcard deck of the requested size.
func (s *StudyService) StartFlashcards(size int) *FlashcardSession {
	sess := NewFlashcardSession(s.pool, size, s.limits.FlashcardsMax, s.rng)
	s.metrics.SessionStarted(ModeFlashcards)
	s.logger.Debug("flashcards started", zap.Int("size", sess.Len()))
	return sess
}

// StartPractice builds a new practice set of the requested size.
func (s *StudyService) StartPractice(size int, now time.Time) *PracticeSession {
	sess := NewPracticeSession(s.pool, s.generator, PracticeOptions{
		Size:            size,
		Limit:           s.limits.PracticeMax,
		Choices:         s.limits.Choices,
		ShowExplanation: s.limits.ShowExplanation,
	}, s.rng, now)
	s.metrics.SessionStarted(ModePractice)
	s.logger.Debug("practice started", zap.Int("size", sess.Len()))
	return sess
}

// RecordAnswer reports a practice answer to metrics.
func (s *StudyService) RecordAnswer(rec entities.AnswerRecord) {
	s.metrics.AnswerRecorded(rec.IsCorrect)
}

// Search runs a learn-mode search.
func (s *StudyService) Search(query string) *SearchSession {
	sess := NewSearchSession(s.pool, query, s.limits.LearnPageSize)
	s.metrics.SearchPerformed()
	s.logger.Debug("search", zap.String("query", sess.Query), zap.Int("results", len(sess.Results)))
	return sess
}
