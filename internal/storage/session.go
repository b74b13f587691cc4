package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	sessionIDLength   = 10
)

type entry[T any] struct {
	id       string
	value    T
	lastSeen time.Time
}

// Sessions keeps one active session per chat in memory.
// Each session gets a short id that is embedded in callback data,
// so buttons from a replaced session can be told apart.
type Sessions[T any] struct {
	mu       sync.RWMutex
	sessions map[int64]entry[T]
	now      func() time.Time
}

// NewSessions creates an empty session store.
func NewSessions[T any]() *Sessions[T] {
	return &Sessions[T]{
		sessions: make(map[int64]entry[T]),
		now:      time.Now,
	}
}

// Start replaces the chat's session with value and returns the new session id.
func (s *Sessions[T]) Start(chatID int64, value T) (string, error) {
	id, err := gonanoid.Generate(sessionIDAlphabet, sessionIDLength)
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = entry[T]{id: id, value: value, lastSeen: s.now()}

	return id, nil
}

// Get returns the chat's session if its id matches and marks it as used.
func (s *Sessions[T]) Get(chatID int64, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[chatID]
	if !ok || e.id != id {
		var zero T
		return zero, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	s.sessions[chatID] = e
	return e.value, nil
}

// Current returns the chat's session regardless of id and marks it as used.
func (s *Sessions[T]) Current(chatID int64) (string, T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[chatID]
	if ok {
		e.lastSeen = s.now()
		s.sessions[chatID] = e
	}
	return e.id, e.value, ok
}

// Has reports whether id is the chat's active session, without marking it as used.
func (s *Sessions[T]) Has(chatID int64, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[chatID]
	return ok && e.id == id
}

// Cleanup drops sessions unused for longer than ttl and returns how many were dropped.
func (s *Sessions[T]) Cleanup(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for chatID, e := range s.sessions {
		if now.Sub(e.lastSeen) > ttl {
			delete(s.sessions, chatID)
			dropped++
		}
	}
	return dropped
}

// Delete removes the chat's session.
func (s *Sessions[T]) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}

// Len returns the number of active sessions.
func (s *Sessions[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
