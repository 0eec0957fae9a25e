// Package auth guards the admin console with a shared password. Browsers get
// a server-side session cookie after logging in; scripts may send the
// password as a bearer token instead.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	CookieName        = "wedding_admin_auth"
	DefaultSessionTTL = 7 * 24 * time.Hour
)

var (
	ErrLoginDisabled   = errors.New("admin login is disabled")
	ErrInvalidPassword = errors.New("invalid password")
)

type Config struct {
	Password     string
	SessionTTL   time.Duration
	CookieSecure bool
}

type Manager struct {
	password     string
	ttl          time.Duration
	cookieSecure bool
	sessions     *sessionStore
	logger       *zap.SugaredLogger
	now          func() time.Time
}

func NewManager(cfg Config, logger *zap.SugaredLogger) *Manager {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		password:     cfg.Password,
		ttl:          ttl,
		cookieSecure: cfg.CookieSecure,
		sessions:     newSessionStore(logger),
		logger:       logger,
		now:          time.Now,
	}
}

// Enabled reports whether an admin password has been configured.
func (m *Manager) Enabled() bool {
	return m.password != ""
}

// CheckPassword compares in constant time. It always fails when no password
// is configured.
func (m *Manager) CheckPassword(password string) bool {
	if !m.Enabled() || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(m.password)) == 1
}

// Login starts a session and sets the session cookie on w.
func (m *Manager) Login(w http.ResponseWriter, password string) (Session, error) {
	if !m.Enabled() {
		return Session{}, ErrLoginDisabled
	}
	if !m.CheckPassword(password) {
		m.logger.Warnw("auth: login rejected")
		return Session{}, ErrInvalidPassword
	}
	id, err := randomToken(32)
	if err != nil {
		return Session{}, err
	}
	now := m.now()
	sess := Session{ID: id, CreatedAt: now, ExpiresAt: now.Add(m.ttl)}
	m.sessions.Set(sess)
	if removed := m.sessions.purge(now); removed > 0 {
		m.logger.Debugw("auth: purged expired sessions", "count", removed)
	}
	m.logger.Infow("auth: login success")

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return sess, nil
}

// Logout forgets the request's session, if any, and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if sess, ok := m.sessions.Delete(cookie.Value); ok {
			duration := m.now().Sub(sess.CreatedAt).Truncate(time.Second)
			m.logger.Infow("auth: logout", "session_duration", duration)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Authenticated accepts either "Authorization: Bearer <password>" or a live
// session cookie.
func (m *Manager) Authenticated(r *http.Request) bool {
	if !m.Enabled() {
		return false
	}
	if header := r.Header.Get("Authorization"); header != "" {
		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && m.CheckPassword(strings.TrimSpace(token)) {
			return true
		}
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	_, ok := m.sessions.Get(cookie.Value, m.now())
	return ok
}

// Require rejects unauthenticated requests with a JSON 401.
func (m *Manager) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Authenticated(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
