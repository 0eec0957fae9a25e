package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"weddingsite/auth"
	"weddingsite/content"
)

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	images, err := s.images.List()
	if err != nil {
		s.logger.Errorf("web: list images failed: %v", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"images": images})
}

func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"fonts": content.FontOptions})
}

// handleEvents streams content revisions as server-sent events. Pages use
// them to reload after an admin saves a change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-s.closing:
			cancel()
		case <-ctx.Done():
		}
	}()

	w.Header().Set(headerContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.metrics.WatcherOpened()
	defer s.metrics.WatcherClosed()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	revisions := s.hub.Watch(ctx)
	for {
		select {
		case rev, ok := <-revisions:
			if !ok {
				return
			}
			payload, err := json.Marshal(rev)
			if err != nil {
				s.logger.Errorf("web: encode revision: %v", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: revision\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalid(w, nil)
		return
	}
	if _, err := s.auth.Login(w, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrLoginDisabled):
			s.logger.Warnf("web: login attempted but no admin password is configured")
			writeError(w, http.StatusUnauthorized, "Invalid password")
		case errors.Is(err, auth.ErrInvalidPassword):
			writeError(w, http.StatusUnauthorized, "Invalid password")
		default:
			s.logger.Errorf("web: create session failed: %v", err)
			writeError(w, http.StatusInternalServerError, errInternal)
		}
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	s.auth.Logout(w, r)
	s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"authenticated": s.auth.Authenticated(r)})
}
