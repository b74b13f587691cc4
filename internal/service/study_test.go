package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/dmv-study-bot/internal/domain/entities"
)

type fakeRepo struct {
	questions []*entities.Question
	err       error
}

func (r *fakeRepo) GetAll(context.Context) ([]*entities.Question, error) {
	return r.questions, r.err
}

type fakeMetrics struct {
	recordingObserver
	sessions map[string]int
	correct  int
	wrong    int
	searches int
}

func (m *fakeMetrics) SessionStarted(mode string) {
	if m.sessions == nil {
		m.sessions = make(map[string]int)
	}
	m.sessions[mode]++
}

func (m *fakeMetrics) AnswerRecorded(correct bool) {
	if correct {
		m.correct++
	} else {
		m.wrong++
	}
}

func (m *fakeMetrics) SearchPerformed() { m.searches++ }

func TestNewStudyService_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewStudyService(ctx, &fakeRepo{}, DefaultLimits(), zap.NewNop(), nil); !errors.Is(err, ErrNoQuestionsAvailable) {
		t.Errorf("empty pool error = %v, want ErrNoQuestionsAvailable", err)
	}

	repoErr := errors.New("boom")
	if _, err := NewStudyService(ctx, &fakeRepo{err: repoErr}, DefaultLimits(), nil, nil); !errors.Is(err, repoErr) {
		t.Errorf("repo error = %v, want wrapped boom", err)
	}
}

func TestNewStudyService_LimitDefaults(t *testing.T) {
	repo := &fakeRepo{questions: newTestPool(distinctAnswers)}
	s, err := NewStudyService(context.Background(), repo, Limits{FlashcardsMax: 500, PracticeMax: -1}, nil, nil)
	if err != nil {
		t.Fatalf("NewStudyService: %v", err)
	}

	got := s.Limits()
	want := DefaultLimits()
	want.ShowExplanation = false
	if got != want {
		t.Errorf("limits = %+v, want %+v", got, want)
	}
	if s.PoolSize() != len(distinctAnswers) {
		t.Errorf("pool size = %d", s.PoolSize())
	}
}

func TestStudyService_Sessions(t *testing.T) {
	repo := &fakeRepo{questions: newTestPool(distinctAnswers)}
	m := &fakeMetrics{}
	s, err := NewStudyService(context.Background(), repo, DefaultLimits(), zap.NewNop(), m)
	if err != nil {
		t.Fatalf("NewStudyService: %v", err)
	}

	if fc := s.StartFlashcards(5); fc.Len() != 5 {
		t.Errorf("flashcards length = %d, want 5", fc.Len())
	}

	now := time.Now()
	p := s.StartPractice(3, now)
	if p.Len() != 3 || !p.ShowExplanation {
		t.Errorf("practice = len %d, explanation %v", p.Len(), p.ShowExplanation)
	}
	rec, err := p.PickIndex(0, now)
	if err != nil {
		t.Fatalf("PickIndex: %v", err)
	}
	s.RecordAnswer(rec)

	if res := s.Search("signal"); len(res.Results) == 0 {
		t.Error("search for signal found nothing")
	}

	if m.sessions[ModeFlashcards] != 1 || m.sessions[ModePractice] != 1 {
		t.Errorf("sessions = %v", m.sessions)
	}
	if m.correct+m.wrong != 1 || m.searches != 1 {
		t.Errorf("answers = %d/%d, searches = %d", m.correct, m.wrong, m.searches)
	}
	if m.calls != 1 {
		t.Errorf("choice sets observed = %d, want 1", m.calls)
	}
}
