package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

func newTestPractice(t *testing.T, size int, start time.Time) *PracticeSession {
	t.Helper()

	pool := newTestPool(distinctAnswers)
	rng := newTestRand(21)
	return NewPracticeSession(pool, NewChoiceGenerator(pool, WithRand(rng)), PracticeOptions{
		Size:            size,
		Choices:         4,
		ShowExplanation: true,
	}, rng, start)
}

func wrongChoice(choices []string, correct string) string {
	for _, c := range choices {
		if c != correct {
			return c
		}
	}
	return ""
}

func TestPracticeSession_FullRun(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	s := newTestPractice(t, 5, start)

	if s.Len() != 5 {
		t.Fatalf("set length = %d, want 5", s.Len())
	}

	now := start
	for i := 0; i < 5; i++ {
		q, choices := s.Current()
		if q == nil {
			t.Fatalf("question %d missing", i+1)
		}
		if len(choices) != 4 {
			t.Fatalf("question %d has %d choices", i+1, len(choices))
		}
		if pos, total := s.Position(); pos != i+1 || total != 5 {
			t.Fatalf("position = %d/%d, want %d/5", pos, total, i+1)
		}

		correct := strings.TrimSpace(q.Answer)
		pick := correct
		if i%2 == 1 {
			pick = wrongChoice(choices, correct)
		}

		now = now.Add(3 * time.Second)
		rec, err := s.Pick(pick, now)
		if err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if rec.IsCorrect != (i%2 == 0) {
			t.Errorf("question %d: IsCorrect = %v", i+1, rec.IsCorrect)
		}
		if rec.TimeSpent != 3*time.Second {
			t.Errorf("question %d: TimeSpent = %v, want 3s", i+1, rec.TimeSpent)
		}
		if rec.Correct != correct {
			t.Errorf("question %d: Correct = %q, want %q", i+1, rec.Correct, correct)
		}

		if err := s.Advance(now); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	if !s.Done() {
		t.Fatal("session should be done")
	}
	if q, _ := s.Current(); q != nil {
		t.Error("done session should have no current question")
	}
	if pos, _ := s.Position(); pos != 5 {
		t.Errorf("position when done = %d, want 5", pos)
	}

	res := s.Result(now)
	if res.Score != 3 || res.Total != 5 {
		t.Errorf("score = %d/%d, want 3/5", res.Score, res.Total)
	}
	if res.Percent != 60 {
		t.Errorf("percent = %d, want 60", res.Percent)
	}
	if res.Rating != entities.RatingGood {
		t.Errorf("rating = %s, want %s", res.Rating, entities.RatingGood)
	}
	if res.TotalTime != 15*time.Second || res.AveragePerQuestion != 3*time.Second {
		t.Errorf("times = %v / %v", res.TotalTime, res.AveragePerQuestion)
	}
	if len(res.Answers) != 5 {
		t.Errorf("answers recorded = %d, want 5", len(res.Answers))
	}
}

func TestPracticeSession_PickRules(t *testing.T) {
	now := time.Now()
	s := newTestPractice(t, 3, now)

	if err := s.Advance(now); !errors.Is(err, ErrNotAnswered) {
		t.Errorf("Advance before answering = %v, want ErrNotAnswered", err)
	}

	if _, err := s.Pick("definitely not an option", now); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("unknown choice = %v, want ErrInvalidChoice", err)
	}
	if _, err := s.PickIndex(7, now); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("out of range index = %v, want ErrInvalidChoice", err)
	}

	if _, err := s.PickIndex(0, now); err != nil {
		t.Fatalf("PickIndex: %v", err)
	}
	if !s.Answered() {
		t.Error("question should be answered")
	}
	if _, err := s.PickIndex(1, now); !errors.Is(err, ErrAlreadyAnswered) {
		t.Errorf("second pick = %v, want ErrAlreadyAnswered", err)
	}

	for !s.Done() {
		if !s.Answered() {
			if _, err := s.PickIndex(0, now); err != nil {
				t.Fatalf("PickIndex: %v", err)
			}
		}
		if err := s.Advance(now); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	if _, err := s.PickIndex(0, now); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("pick after finish = %v, want ErrSessionFinished", err)
	}
	if err := s.Advance(now); !errors.Is(err, ErrSessionFinished) {
		t.Errorf("advance after finish = %v, want ErrSessionFinished", err)
	}
}

func TestPracticeSession_ChoicesFollowQuestion(t *testing.T) {
	now := time.Now()
	s := newTestPractice(t, 4, now)

	for !s.Done() {
		q, choices := s.Current()
		if CorrectIndex(choices, q.Answer) < 0 {
			t.Fatalf("choices %v do not contain answer %q", choices, q.Answer)
		}
		if _, err := s.Pick(strings.TrimSpace(q.Answer), now); err != nil {
			t.Fatalf("Pick: %v", err)
		}
		if err := s.Advance(now); err != nil {
			t.Fatalf("Advance: %v", err)
		}
	}

	if res := s.Result(now); res.Rating != entities.RatingPerfect || res.Percent != 100 {
		t.Errorf("result = %+v, want perfect", res)
	}
}

func TestPracticeSession_Restart(t *testing.T) {
	start := time.Now()
	s := newTestPractice(t, 2, start)

	if _, err := s.PickIndex(0, start); err != nil {
		t.Fatalf("PickIndex: %v", err)
	}
	if err := s.Advance(start); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	later := start.Add(time.Minute)
	s.Restart(later)

	if s.Score() != 0 || s.Answered() {
		t.Error("restart should clear score and answer state")
	}
	if pos, total := s.Position(); pos != 1 || total != 2 {
		t.Errorf("position after restart = %d/%d", pos, total)
	}
	if res := s.Result(later); res.TotalTime != 0 || len(res.Answers) != 0 {
		t.Errorf("result after restart = %+v", res)
	}
}

func TestPracticeSession_SizeLimits(t *testing.T) {
	pool := newTestPool(distinctAnswers)

	s := NewPracticeSession(pool, nil, PracticeOptions{Size: 500}, nil, time.Now())
	if s.Len() != len(pool) {
		t.Errorf("length = %d, want whole pool %d", s.Len(), len(pool))
	}

	s = NewPracticeSession(pool, nil, PracticeOptions{Size: 0}, nil, time.Now())
	if s.Len() != 1 {
		t.Errorf("length = %d, want 1", s.Len())
	}

	empty := NewPracticeSession(nil, nil, PracticeOptions{Size: 10}, nil, time.Now())
	if !empty.Done() {
		t.Error("practice over an empty pool should be done immediately")
	}
	if res := empty.Result(time.Now()); res.Total != 0 || res.Percent != 0 {
		t.Errorf("empty result = %+v", res)
	}
}
