package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"schematic-editor/internal/circuit/store"

	"github.com/google/uuid"
)

// ============================================================
// Session Manager
// ============================================================

var ErrTooManySessions = errors.New("too many open sessions")

// Session: одна открытая вкладка редактора со своим документом и историей.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	store *store.Store
}

// Do выполняет fn под блокировкой сессии. Store не потокобезопасен,
// поэтому любое обращение к нему идет через Do.
func (s *Session) Do(fn func(st *store.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store)
}

type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	opts        store.Options
	maxSessions int
	log         *slog.Logger
}

// NewSessionManager; maxSessions = 0 снимает ограничение.
func NewSessionManager(opts store.Options, maxSessions int, log *slog.Logger) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		opts:        opts,
		maxSessions: maxSessions,
		log:         log.With("component", "sessions"),
	}
}

func (m *SessionManager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.maxSessions > 0 && len(m.sessions) >= m.maxSessions {
		return nil, ErrTooManySessions
	}

	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		store:     store.New(m.opts),
	}
	m.sessions[sess.ID] = sess
	m.log.Info("session created", "session", sess.ID, "open", len(m.sessions))
	return sess, nil
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *SessionManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	m.log.Info("session closed", "session", id, "open", len(m.sessions))
	return true
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
