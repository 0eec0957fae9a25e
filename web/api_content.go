package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"weddingsite/content"
	"weddingsite/db"
	"weddingsite/i18n"
	"weddingsite/live"
	"weddingsite/model"
	"weddingsite/validation"
)

const auditActor = "admin"

func auditEvent(action, message, metadata string) model.AuditLog {
	return model.AuditLog{Action: action, Actor: auditActor, Message: message, Metadata: metadata}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, http.StatusOK, s.loadContent(r))
	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		var update content.Update
		if err := decodeJSON(r, &update); err != nil {
			writeInvalid(w, nil)
			return
		}
		if err := update.Validate(); err != nil {
			var verr *validation.Error
			if errors.As(err, &verr) {
				writeInvalid(w, verr.Details)
				return
			}
			writeInvalid(w, nil)
			return
		}
		stored, err := s.saveContent(r.Context(), update)
		if err != nil {
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusOK, stored)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

// saveContent stores a validated update, then publishes the content revision
// and records the audit row. Store failures are logged here.
func (s *Server) saveContent(ctx context.Context, update content.Update) (*model.SiteContent, error) {
	stored, err := s.store.UpsertSiteContent(ctx, update)
	if err != nil {
		s.logger.Errorf("web: update content failed: %v", err)
		return nil, err
	}
	sections := update.Sections()
	rev := s.hub.Publish(live.TopicContent)
	s.metrics.ContentUpdated(sections...)
	s.audit(ctx, "content.update", "site content updated", strings.Join(sections, ","))
	s.logger.Infow("web: content updated", "sections", sections, "revision", rev.Content)
	return stored, nil
}

// loadContent never fails: a missing row or a store error yields the
// defaults so the invitation page always renders.
func (s *Server) loadContent(r *http.Request) model.SiteContent {
	stored, err := s.store.GetSiteContent(r.Context())
	if err != nil {
		if !errors.Is(err, db.ErrContentNotFound) {
			s.logger.Errorf("web: fetch content failed: %v", err)
		}
		return content.Default()
	}
	return *stored
}

func (s *Server) loadTranslations(r *http.Request) (map[model.Language]map[string]string, error) {
	out := make(map[model.Language]map[string]string, len(model.Languages))
	for _, lang := range model.Languages {
		catalog, err := s.store.GetOrSeedTranslation(r.Context(), lang, i18n.Fallback(lang))
		if err != nil {
			return nil, err
		}
		out[lang] = catalog
	}
	return out, nil
}

// catalogFor returns the stored catalogue for lang layered over the built-in
// one, so keys added in a release show up before an admin edits them.
func (s *Server) catalogFor(r *http.Request, lang model.Language) i18n.Catalog {
	catalog := i18n.Fallback(lang)
	stored, err := s.store.GetOrSeedTranslation(r.Context(), lang, i18n.Fallback(lang))
	if err != nil {
		s.logger.Errorf("web: fetch %s translations failed: %v", lang, err)
		return catalog
	}
	for k, v := range stored {
		catalog[k] = v
	}
	return catalog
}

func (s *Server) handleTranslations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		catalogs, err := s.loadTranslations(r)
		if err != nil {
			s.logger.Errorf("web: fetch translations failed: %v", err)
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusOK, catalogs)
	case http.MethodPut:
		if !s.requireAdmin(w, r) {
			return
		}
		var body map[string]json.RawMessage
		if err := decodeJSON(r, &body); err != nil {
			writeInvalid(w, nil)
			return
		}
		catalogs, details := parseTranslations(body)
		if details != nil {
			writeInvalid(w, details)
			return
		}
		saved, err := s.saveTranslations(r.Context(), catalogs)
		if err != nil {
			writeError(w, http.StatusInternalServerError, errInternal)
			return
		}
		s.writeJSON(w, http.StatusOK, saved)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

func (s *Server) saveTranslations(ctx context.Context, catalogs map[model.Language]map[string]string) (map[model.Language]map[string]string, error) {
	saved, err := s.store.UpsertTranslations(ctx, catalogs)
	if err != nil {
		s.logger.Errorf("web: update translations failed: %v", err)
		return nil, err
	}
	langs := make([]string, 0, len(saved))
	for _, lang := range model.Languages {
		if _, ok := saved[lang]; ok {
			langs = append(langs, string(lang))
		}
	}
	rev := s.hub.Publish(live.TopicTranslations)
	s.audit(ctx, "translations.update", "translations updated", strings.Join(langs, ","))
	s.logger.Infow("web: translations updated", "languages", langs, "revision", rev.Translations)
	return saved, nil
}

// parseTranslations accepts either {"translations": {"hu": {...}, "en": {...}}}
// or the inner object directly. Both languages must be string maps.
func parseTranslations(body map[string]json.RawMessage) (map[model.Language]map[string]string, *validation.Details) {
	if wrapped, ok := body["translations"]; ok && string(wrapped) != "null" {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(wrapped, &inner); err != nil {
			return nil, &validation.Details{
				FormErrors:  []string{"Expected object"},
				FieldErrors: map[string][]string{},
			}
		}
		body = inner
	}
	details := validation.Details{FormErrors: []string{}, FieldErrors: map[string][]string{}}
	out := make(map[model.Language]map[string]string, len(model.Languages))
	for _, lang := range model.Languages {
		raw, ok := body[string(lang)]
		if !ok || string(raw) == "null" {
			details.FieldErrors[string(lang)] = append(details.FieldErrors[string(lang)], "Required")
			continue
		}
		var catalog map[string]string
		if err := json.Unmarshal(raw, &catalog); err != nil {
			details.FieldErrors[string(lang)] = append(details.FieldErrors[string(lang)], "Expected a map of strings")
			continue
		}
		out[lang] = catalog
	}
	if len(details.FieldErrors) > 0 {
		return nil, &details
	}
	return out, nil
}
