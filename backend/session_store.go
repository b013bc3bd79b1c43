package main

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// SessionStore keys one board per connection.
type SessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	boardSize func() int
	factory   EngineFactory
}

func NewSessionStore(boardSize func() int, factory EngineFactory) *SessionStore {
	return &SessionStore{
		sessions:  make(map[string]*Session),
		boardSize: boardSize,
		factory:   factory,
	}
}

func (s *SessionStore) Create() *Session {
	session := NewSession(uuid.NewString(), s.boardSize(), s.factory)
	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()
	activeSessions.Set(float64(count))
	return session
}

func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *SessionStore) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()
	activeSessions.Set(float64(count))
}

func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStore) IDs() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}
