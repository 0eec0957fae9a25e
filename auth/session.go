package auth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Session is a logged-in admin browser.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	logger   *zap.SugaredLogger
}

func newSessionStore(logger *zap.SugaredLogger) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]Session),
		logger:   logger,
	}
}

func (s *sessionStore) Set(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *sessionStore) Get(id string, now time.Time) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if now.After(sess.ExpiresAt) {
		s.Delete(id)
		if s.logger != nil {
			duration := now.Sub(sess.CreatedAt).Truncate(time.Second)
			s.logger.Infow("auth: session expired", "session_duration", duration)
		}
		return Session{}, false
	}
	return sess, true
}

func (s *sessionStore) Delete(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		return sess, true
	}
	return Session{}, false
}

// purge drops every expired session and reports how many were removed.
func (s *sessionStore) purge(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func randomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
