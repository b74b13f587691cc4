package storage

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSessions_StartGet(t *testing.T) {
	s := NewSessions[string]()

	id, err := s.Start(42, "first")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if len(id) != sessionIDLength {
		t.Errorf("id length = %d, want %d", len(id), sessionIDLength)
	}
	for _, r := range id {
		if !strings.ContainsRune(sessionIDAlphabet, r) {
			t.Errorf("id %q contains %q", id, r)
		}
	}

	got, err := s.Get(42, id)
	if err != nil || got != "first" {
		t.Fatalf("Get = %q, %v", got, err)
	}

	if _, err := s.Get(42, "other"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("wrong id = %v, want ErrSessionNotFound", err)
	}
	if _, err := s.Get(7, id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("wrong chat = %v, want ErrSessionNotFound", err)
	}
}

func TestSessions_StartReplaces(t *testing.T) {
	s := NewSessions[int]()

	oldID, _ := s.Start(1, 10)
	newID, _ := s.Start(1, 20)
	if oldID == newID {
		t.Fatal("ids should differ between sessions")
	}

	if _, err := s.Get(1, oldID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("stale id = %v, want ErrSessionNotFound", err)
	}

	id, v, ok := s.Current(1)
	if !ok || id != newID || v != 20 {
		t.Errorf("Current = %q, %d, %v", id, v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}

	s.Delete(1)
	if _, _, ok := s.Current(1); ok {
		t.Error("session should be deleted")
	}
}

func TestSessions_Concurrent(t *testing.T) {
	s := NewSessions[int]()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(chatID int64) {
			defer wg.Done()
			id, err := s.Start(chatID, int(chatID))
			if err != nil {
				t.Errorf("Start: %v", err)
				return
			}
			if v, err := s.Get(chatID, id); err != nil || v != int(chatID) {
				t.Errorf("Get(%d) = %d, %v", chatID, v, err)
			}
		}(int64(i))
	}
	wg.Wait()

	if s.Len() != 50 {
		t.Errorf("len = %d, want 50", s.Len())
	}
}

func TestSessions_Cleanup(t *testing.T) {
	s := NewSessions[string]()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	idleID, _ := s.Start(1, "idle")
	activeID, _ := s.Start(2, "active")

	now = now.Add(20 * time.Minute)
	if _, err := s.Get(2, activeID); err != nil {
		t.Fatalf("Get: %v", err)
	}

	now = now.Add(15 * time.Minute)
	if !s.Has(1, idleID) || s.Has(1, activeID) {
		t.Error("Has should match the chat's session id")
	}
	if dropped := s.Cleanup(30 * time.Minute); dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if _, err := s.Get(1, idleID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session = %v, want ErrSessionNotFound", err)
	}
	if _, err := s.Get(2, activeID); err != nil {
		t.Errorf("active session should survive: %v", err)
	}
}
