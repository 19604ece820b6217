package sleep

import (
	"context"
	"sync"
	"time"
)

// Session is one night of sleep. A pending session has no wake time.
type Session struct {
	ID         string     `json:"id"`
	Date       time.Time  `json:"date"`
	SleepTime  *time.Time `json:"sleepTime,omitempty"`
	WakeTime   *time.Time `json:"wakeTime,omitempty"`
	Duration   int        `json:"duration"` // minutes
	Quality    int        `json:"quality"`
	Notes      string     `json:"notes,omitempty"`
	SoundsUsed []string   `json:"soundsUsed"`
}

// Store keeps completed sessions, newest first.
type Store interface {
	Add(ctx context.Context, s Session) error
	List(ctx context.Context) ([]Session, error)
	Close() error
}

// MemoryStore is a Store backed by a slice.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions []Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add prepends s to the history.
func (m *MemoryStore) Add(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append([]Session{cloneSession(s)}, m.sessions...)
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		out[i] = cloneSession(s)
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

func cloneSession(s Session) Session {
	sounds := make([]string, len(s.SoundsUsed))
	copy(sounds, s.SoundsUsed)
	s.SoundsUsed = sounds
	return s
}
