// Package web is the HTTP surface of the wedding site: the JSON API used by
// the admin console and scripts, the server-rendered invitation page, and the
// admin RSVP dashboard.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"sync"
	"time"

	"weddingsite/auth"
	"weddingsite/db"
	"weddingsite/live"
	"weddingsite/media"
	"weddingsite/metrics"

	"go.uber.org/zap"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
	contentTypeCSV    = "text/csv; charset=utf-8"

	errInvalidData    = "Invalid data"
	errInternal       = "Internal server error"
	errUnauthorized   = "Unauthorized"
	errNotFound       = "Not found"
	errMethodNotAllow = "Method not allowed"

	defaultKeepAlive = 25 * time.Second
)

type Options struct {
	Store     db.Store
	Auth      *auth.Manager
	Hub       *live.Hub
	Images    *media.Catalog
	Metrics   *metrics.Metrics
	Logger    *zap.SugaredLogger
	WebOrigin string
	// Location is used for dates shown to admins and in CSV exports.
	Location *time.Location
}

type Server struct {
	store     db.Store
	auth      *auth.Manager
	hub       *live.Hub
	images    *media.Catalog
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger
	webOrigin string
	location  *time.Location
	templates *template.Template
	keepAlive time.Duration
	now       func() time.Time

	closing   chan struct{}
	closeOnce sync.Once
}

func New(opts Options) (*Server, error) {
	if opts.Store == nil {
		return nil, errors.New("web: store is required")
	}
	if opts.Auth == nil {
		return nil, errors.New("web: auth manager is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	hub := opts.Hub
	if hub == nil {
		hub = live.NewHub()
	}
	images := opts.Images
	if images == nil {
		images = media.NewCatalog("public/images", logger)
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		store:     opts.Store,
		auth:      opts.Auth,
		hub:       hub,
		images:    images,
		metrics:   m,
		logger:    logger,
		webOrigin: opts.WebOrigin,
		location:  loc,
		templates: tmpl,
		keepAlive: defaultKeepAlive,
		now:       time.Now,
		closing:   make(chan struct{}),
	}, nil
}

// Close ends every open live-update stream. Call it before shutting down the
// HTTP server, which otherwise waits for those streams forever.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.handle(mux, "/healthz", http.HandlerFunc(s.handleHealth))
	mux.Handle("/metrics", s.metrics.Handler())

	s.handle(mux, "/api/content", s.withCORS(http.HandlerFunc(s.handleContent)))
	s.handle(mux, "/api/translations", s.withCORS(http.HandlerFunc(s.handleTranslations)))
	s.handle(mux, "/api/rsvp", s.withCORS(http.HandlerFunc(s.handleRSVPs)))
	s.handle(mux, "/api/rsvp/", s.withCORS(s.auth.Require(http.HandlerFunc(s.handleRSVP))))
	s.handle(mux, "/api/images", s.withCORS(http.HandlerFunc(s.handleImages)))
	s.handle(mux, "/api/fonts", s.withCORS(http.HandlerFunc(s.handleFonts)))
	s.handle(mux, "/api/events", s.withCORS(http.HandlerFunc(s.handleEvents)))
	s.handle(mux, "/api/auth/login", s.withCORS(http.HandlerFunc(s.handleLogin)))
	s.handle(mux, "/api/auth/logout", s.withCORS(http.HandlerFunc(s.handleLogout)))
	s.handle(mux, "/api/auth/session", s.withCORS(http.HandlerFunc(s.handleSession)))
	s.handle(mux, "/api/", s.withCORS(http.HandlerFunc(s.handleAPINotFound)))

	s.handle(mux, "/images/", s.imageHandler())
	s.handle(mux, "/static/", staticHandler())
	s.handle(mux, "/rsvp", http.HandlerFunc(s.handleRSVPPage))
	s.handle(mux, "/language", http.HandlerFunc(s.handleLanguage))
	s.handle(mux, "/admin/login", http.HandlerFunc(s.handleAdminLogin))
	s.handle(mux, "/admin/logout", http.HandlerFunc(s.handleAdminLogout))
	s.handle(mux, "/admin/rsvp/", http.HandlerFunc(s.handleAdminDelete))
	for _, ed := range contentEditors {
		s.handle(mux, "/admin/"+ed.section, s.handleContentEditor(ed))
	}
	s.handle(mux, "/admin/translations", http.HandlerFunc(s.handleTranslationsEditor))
	s.handle(mux, "/admin", http.HandlerFunc(s.handleAdminDashboard))
	s.handle(mux, "/", http.HandlerFunc(s.handleIndex))
	return mux
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.Handler) {
	mux.Handle(pattern, s.metrics.Instrument(pattern, h))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Errorf("web: health check failed: %v", err)
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleAPINotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, errNotFound)
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.webOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.webOrigin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin writes the 401 body and reports false for anonymous requests.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.auth.Authenticated(r) {
		return true
	}
	writeError(w, http.StatusUnauthorized, errUnauthorized)
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Errorf("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeInvalid(w http.ResponseWriter, details any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(http.StatusBadRequest)
	body := map[string]any{"error": errInvalidData}
	if details != nil {
		body["details"] = details
	}
	_ = json.NewEncoder(w).Encode(body)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, errMethodNotAllow)
}

// decodeJSON reads a single JSON value from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

func (s *Server) audit(ctx context.Context, action, message, metadata string) {
	s.store.LogAuditEvent(ctx, s.logger, auditEvent(action, message, metadata))
}
