package canvas

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/guiomkt/cheff-guio-sub000/pkg/errors"
)

// Session is one client's canvas on an area
type Session struct {
	ID       string
	Engine   *Engine
	lastUsed time.Time
}

// SessionStore owns the live canvas sessions of this process
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create registers engine under a new session ID
func (s *SessionStore) Create(engine *Engine) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := &Session{ID: uuid.New().String(), Engine: engine, lastUsed: s.now()}
	s.sessions[session.ID] = session
	return session
}

// Get returns a session and marks it as used
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("canvas session not found")
	}
	session.lastUsed = s.now()
	return session, nil
}

// Delete ends a session
func (s *SessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.NewNotFoundError("canvas session not found")
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions unused for longer than idle and returns how many went
func (s *SessionStore) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for id, session := range s.sessions {
		if session.lastUsed.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps idle sessions every interval until ctx is done.
// onSwept, when set, receives the count of every non-empty sweep.
func (s *SessionStore) RunSweeper(ctx context.Context, interval, idle time.Duration, onSwept func(n int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep(idle)
			if n == 0 {
				continue
			}
			log.Debug().Int("removed", n).Msg("Swept idle canvas sessions")
			if onSwept != nil {
				onSwept(n)
			}
		}
	}
}
