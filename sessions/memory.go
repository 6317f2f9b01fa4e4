package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mitra-credit/flow"
	"mitra-credit/shared"
)

type memorySession struct {
	session   *flow.Session
	events    int
	lastError string
	lastSeen  time.Time
}

// Memory keeps sessions in a map guarded by a mutex. Sessions idle for
// longer than IdleTimeout are dropped on the next access.
type Memory struct {
	IdleTimeout time.Duration
	Now         func() time.Time
	NewID       func() string

	mu       sync.Mutex
	sessions map[string]*memorySession
}

// NewMemory returns an empty in-process backend.
func NewMemory(idleTimeout time.Duration) *Memory {
	if idleTimeout <= 0 {
		idleTimeout = shared.DefaultIdleTimeout
	}
	return &Memory{
		IdleTimeout: idleTimeout,
		sessions:    make(map[string]*memorySession),
	}
}

func (m *Memory) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Memory) newID() string {
	if m.NewID != nil {
		return m.NewID()
	}
	return uuid.NewString()
}

// Start implements Backend.
func (m *Memory) Start(_ context.Context) (shared.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions == nil {
		m.sessions = make(map[string]*memorySession)
	}
	id := m.newID()
	s := &memorySession{session: flow.NewSession(), lastSeen: m.now()}
	m.sessions[id] = s
	return s.snapshot(id), nil
}

// Dispatch implements Backend.
func (m *Memory) Dispatch(_ context.Context, id string, ev shared.Event) (shared.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return shared.SessionSnapshot{}, err
	}
	if err := s.session.Dispatch(ev); err != nil {
		s.lastError = err.Error()
		return s.snapshot(id), err
	}
	s.events++
	s.lastError = ""
	return s.snapshot(id), nil
}

// Snapshot implements Backend.
func (m *Memory) Snapshot(_ context.Context, id string) (shared.SessionSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.lookup(id)
	if err != nil {
		return shared.SessionSnapshot{}, err
	}
	return s.snapshot(id), nil
}

// Close implements Backend.
func (m *Memory) Close(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.lookup(id); err != nil {
		return err
	}
	delete(m.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// lookup must be called with mu held. It refreshes lastSeen.
func (m *Memory) lookup(id string) (*memorySession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if m.IdleTimeout > 0 && now.Sub(s.lastSeen) > m.IdleTimeout {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	s.lastSeen = now
	return s, nil
}

func (s *memorySession) snapshot(id string) shared.SessionSnapshot {
	snap := s.session.Snapshot()
	snap.SessionID = id
	snap.Events = s.events
	snap.LastError = s.lastError
	return snap
}
