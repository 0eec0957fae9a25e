package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"weddingsite/db"
	"weddingsite/model"
	"weddingsite/rsvp"
	"weddingsite/validation"
)

func (s *Server) handleRSVPs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in rsvp.Input
		if err := decodeJSON(r, &in); err != nil {
			writeInvalid(w, nil)
			return
		}
		created, err := s.submitRSVP(r.Context(), in)
		if err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				writeInvalid(w, verr.Details)
				return
			}
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		if !s.requireAdmin(w, r) {
			return
		}
		submissions, err := s.store.ListRSVPs(r.Context())
		if err != nil {
			s.logger.Errorf("web: list rsvps failed: %v", err)
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusOK, submissions)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// submitRSVP validates and stores a reply. Validation failures are returned
// as *validation.Error; anything else is a store failure and already logged.
func (s *Server) submitRSVP(ctx context.Context, in rsvp.Input) (*model.RsvpSubmission, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	submission := in.Submission()
	if err := s.store.CreateRSVP(ctx, &submission); err != nil {
		s.logger.Errorf("web: create rsvp failed: %v", err)
		return nil, err
	}
	s.metrics.RSVPSubmitted(string(submission.Language))
	s.logger.Infow("web: rsvp received",
		"id", submission.ID,
		"language", submission.Language,
		"guests", 1+len(submission.AdditionalGuests),
	)
	return &submission, nil
}

// handleRSVP serves /api/rsvp/stats, /api/rsvp/export and /api/rsvp/{id}.
// The route is wrapped in the auth middleware.
func (s *Server) handleRSVP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/rsvp/"), "/")
	switch rest {
	case "":
		writeError(w, http.StatusNotFound, errNotFound)
	case "stats":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, "GET")
			return
		}
		submissions, err := s.store.ListRSVPs(r.Context())
		if err != nil {
			s.logger.Errorf("web: list rsvps failed: %v", err)
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusOK, rsvp.Summarize(submissions))
	case "export":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, "GET")
			return
		}
		s.exportRSVPs(w, r)
	default:
		if strings.Contains(rest, "/") {
			writeError(w, http.StatusNotFound, errNotFound)
			return
		}
		if r.Method != http.MethodDelete {
			methodNotAllowed(w, "DELETE")
			return
		}
		if err := s.deleteRSVP(r.Context(), rest); err != nil {
			if errors.Is(err, db.ErrRSVPNotFound) {
				writeError(w, http.StatusNotFound, "RSVP not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to delete RSVP")
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func (s *Server) deleteRSVP(ctx context.Context, id string) error {
	if err := s.store.DeleteRSVP(ctx, id); err != nil {
		if !errors.Is(err, db.ErrRSVPNotFound) {
			s.logger.Errorf("web: delete rsvp %s failed: %v", id, err)
		}
		return err
	}
	s.audit(ctx, "rsvp.delete", fmt.Sprintf("rsvp %s deleted", id), id)
	return nil
}

func (s *Server) exportRSVPs(w http.ResponseWriter, r *http.Request) {
	submissions, err := s.store.ListRSVPs(r.Context())
	if err != nil {
		s.logger.Errorf("web: list rsvps failed: %v", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	var buf bytes.Buffer
	if err := rsvp.WriteCSV(&buf, submissions, s.location); err != nil {
		s.logger.Errorf("web: export rsvps failed: %v", err)
		writeError(w, http.StatusInternalServerError, errInternal)
		return
	}
	w.Header().Set(headerContentType, contentTypeCSV)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rsvp.ExportFilename(s.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
