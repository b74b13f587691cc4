package service

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

var (
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("current question is not answered yet")
	ErrSessionFinished = errors.New("practice set is finished")
	ErrInvalidChoice   = errors.New("choice is not one of the options")
)

// PracticeSession is a multiple-choice practice set.
// A session is owned by a single chat and is not safe for concurrent use.
type PracticeSession struct {
	pool        []*entities.Question
	generator   *ChoiceGenerator
	rng         Rand
	size        int
	limit       int
	choiceCount int

	questions []*entities.Question
	choices   []string
	index     int
	answered  bool
	score     int
	answers   []entities.AnswerRecord

	startedAt         time.Time
	questionStartedAt time.Time

	ShowExplanation bool
}

// PracticeOptions configures a new practice session.
type PracticeOptions struct {
	Size            int
	Limit           int
	Choices         int
	ShowExplanation bool
}

// NewPracticeSession draws a practice set from pool and prepares the first question.
func NewPracticeSession(
	pool []*entities.Question,
	generator *ChoiceGenerator,
	opts PracticeOptions,
	rng Rand,
	now time.Time,
) *PracticeSession {
	if rng == nil {
		rng = globalRand{}
	}
	if generator == nil {
		generator = NewChoiceGenerator(pool, WithRand(rng))
	}
	if opts.Limit <= 0 {
		opts.Limit = MaxPractice
	}
	if opts.Choices < 2 {
		opts.Choices = DefaultChoiceCount
	}

	s := &PracticeSession{
		pool:            pool,
		generator:       generator,
		rng:             rng,
		size:            ClampSize(opts.Size, 1, opts.Limit),
		limit:           opts.Limit,
		choiceCount:     opts.Choices,
		ShowExplanation: opts.ShowExplanation,
	}
	s.Restart(now)
	return s
}

// Restart draws a fresh set and clears score, answers and timers.
func (s *PracticeSession) Restart(now time.Time) {
	s.questions = buildDeck(s.rng, s.pool, s.size, s.limit)
	s.index = 0
	s.answered = false
	s.score = 0
	s.answers = nil
	s.startedAt = now
	s.questionStartedAt = now
	s.loadChoices()
}

func (s *PracticeSession) loadChoices() {
	s.choices = nil
	if q := s.currentQuestion(); q != nil {
		s.choices = s.generator.MakeChoices(q, s.choiceCount)
	}
}

func (s *PracticeSession) currentQuestion() *entities.Question {
	if s.index >= len(s.questions) {
		return nil
	}
	return s.questions[s.index]
}

// Current returns the current question and its options, or nil when the set is done.
func (s *PracticeSession) Current() (*entities.Question, []string) {
	q := s.currentQuestion()
	if q == nil {
		return nil, nil
	}
	return q, append([]string(nil), s.choices...)
}

// Pick records the answer to the current question. Only the first pick counts.
func (s *PracticeSession) Pick(choice string, now time.Time) (entities.AnswerRecord, error) {
	q := s.currentQuestion()
	if q == nil {
		return entities.AnswerRecord{}, ErrSessionFinished
	}
	if s.answered {
		return entities.AnswerRecord{}, ErrAlreadyAnswered
	}

	known := false
	for _, c := range s.choices {
		if c == choice {
			known = true
			break
		}
	}
	if !known {
		return entities.AnswerRecord{}, ErrInvalidChoice
	}

	correct := strings.TrimSpace(q.Answer)
	rec := entities.AnswerRecord{
		Question:  q,
		Selected:  choice,
		Correct:   correct,
		IsCorrect: choice == correct,
		TimeSpent: now.Sub(s.questionStartedAt),
	}
	if rec.IsCorrect {
		s.score++
	}
	s.answered = true
	s.answers = append(s.answers, rec)

	return rec, nil
}

// PickIndex is Pick by option position.
func (s *PracticeSession) PickIndex(i int, now time.Time) (entities.AnswerRecord, error) {
	if s.currentQuestion() == nil {
		return entities.AnswerRecord{}, ErrSessionFinished
	}
	if i < 0 || i >= len(s.choices) {
		return entities.AnswerRecord{}, ErrInvalidChoice
	}
	return s.Pick(s.choices[i], now)
}

// Answered reports whether the current question has been answered.
func (s *PracticeSession) Answered() bool { return s.answered }

// Advance moves to the next question, or past the last one which finishes the set.
func (s *PracticeSession) Advance(now time.Time) error {
	if s.Done() {
		return ErrSessionFinished
	}
	if !s.answered {
		return ErrNotAnswered
	}

	s.index++
	s.answered = false
	s.questionStartedAt = now
	s.loadChoices()

	return nil
}

// Done reports whether every question has been answered and passed.
func (s *PracticeSession) Done() bool { return s.index >= len(s.questions) }

// Position returns the 1-based question number (capped at the set length) and the set length.
func (s *PracticeSession) Position() (int, int) {
	return min(s.index+1, len(s.questions)), len(s.questions)
}

// Score returns the number of correct answers so far.
func (s *PracticeSession) Score() int { return s.score }

// Len returns the number of questions in the set.
func (s *PracticeSession) Len() int { return len(s.questions) }

// Result summarizes the session at the given moment.
func (s *PracticeSession) Result(now time.Time) entities.PracticeResult {
	total := len(s.questions)
	res := entities.PracticeResult{
		Score:     s.score,
		Total:     total,
		Rating:    entities.RateScore(s.score, total),
		TotalTime: now.Sub(s.startedAt),
		Answers:   append([]entities.AnswerRecord(nil), s.answers...),
	}
	if total > 0 {
		res.Percent = int(math.Round(float64(s.score) / float64(total) * 100))
		res.AveragePerQuestion = res.TotalTime / time.Duration(total)
	}
	return res
}
