package web

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"weddingsite/auth"
	"weddingsite/content"
	"weddingsite/db"
	"weddingsite/i18n"
	"weddingsite/live"
	"weddingsite/markdown"
	"weddingsite/media"
	"weddingsite/model"
	"weddingsite/rsvp"
	"weddingsite/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	placeholderImage = "invitation-placeholder.svg"

	rsvpResultParam = "rsvp"
	rsvpResultOK    = "ok"
)

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"markdown": markdown.Render,
		"join":     strings.Join,
		"contains": slices.Contains[[]string, string],
		"fieldError": func(errs map[string][]string, path string) string {
			return strings.Join(errs[path], ", ")
		},
	}).ParseFS(templateFS, "templates/*.html")
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// imageHandler serves files from the images directory without listings. The
// default invitation placeholder is built in so a fresh install renders.
func (s *Server) imageHandler() http.Handler {
	files := http.StripPrefix(media.URLPrefix, http.FileServer(http.Dir(s.images.Dir())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			methodNotAllowed(w, "GET, HEAD")
			return
		}
		name := strings.TrimPrefix(r.URL.Path, media.URLPrefix)
		if name == "" || strings.Contains(name, "/") || !media.IsImage(name) {
			http.NotFound(w, r)
			return
		}
		if name == placeholderImage && !s.images.Has(name) {
			http.ServeFileFS(w, r, staticFS, "static/"+placeholderImage)
			return
		}
		files.ServeHTTP(w, r)
	})
}

type pageBase struct {
	Lang     model.Language
	T        i18n.Catalog
	ThemeCSS template.CSS
	FontsURL string
}

type indexPage struct {
	pageBase
	Content     model.SiteContent
	HeroImage   string
	ShowPrompt  bool
	Form        *rsvp.Form
	FieldErrors map[string][]string
	Revision    live.Revision
}

type adminLoginPage struct {
	pageBase
	Error   string
	Enabled bool
}

type rsvpRow struct {
	ID               string
	GuestName        string
	AdditionalGuests []string
	Phone            string
	Accommodation    bool
	Transport        bool
	Volunteer        []string
	Comments         string
	Date             string
}

type adminPage struct {
	adminBase
	Stats rsvp.Stats
	Rows  []rsvpRow
}

func (s *Server) base(r *http.Request, lang model.Language, theme model.ThemeConfig) pageBase {
	return pageBase{
		Lang:     lang,
		T:        s.catalogFor(r, lang),
		ThemeCSS: template.CSS(content.ThemeCSS(theme)),
		FontsURL: fontsURL(theme),
	}
}

func fontsURL(theme model.ThemeConfig) string {
	q := url.Values{}
	seen := map[string]bool{}
	for _, font := range []string{theme.FontHeading, theme.FontBody} {
		if seen[font] {
			continue
		}
		seen[font] = true
		if _, ok := content.GoogleFontsFamily(font); ok {
			q.Add("family", font)
		}
	}
	if len(q) == 0 {
		return ""
	}
	q.Set("display", "swap")
	return "https://fonts.googleapis.com/css2?" + q.Encode()
}

// resolveLanguage applies the request language and persists an explicit
// ?lang= choice.
func resolveLanguage(w http.ResponseWriter, r *http.Request) i18n.Resolution {
	res := i18n.Resolve(r)
	if res.Persist {
		i18n.SetLanguageCookie(w, res.Language)
	}
	return res
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Errorf("web: render %s: %v", name, err)
		http.Error(w, errInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set(headerContentType, "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		return
	}
	res := resolveLanguage(w, r)
	form := rsvp.NewForm(res.Language)
	if r.URL.Query().Get(rsvpResultParam) == rsvpResultOK {
		form = rsvp.Succeeded(res.Language)
	}
	s.renderIndex(w, r, http.StatusOK, res, form, nil)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, res i18n.Resolution, form *rsvp.Form, fieldErrors map[string][]string) {
	c := s.loadContent(r)
	s.render(w, status, "index", indexPage{
		pageBase:    s.base(r, res.Language, c.Theme),
		Content:     c,
		HeroImage:   content.InvitationImage(c.Hero),
		ShowPrompt:  i18n.ShouldPrompt(r, res),
		Form:        form,
		FieldErrors: fieldErrors,
		Revision:    s.hub.Snapshot(),
	})
}

// handleLanguage answers the language prompt. Choosing a language stores it;
// dismissing only records that the prompt was seen.
func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, errInvalidData, http.StatusBadRequest)
		return
	}
	if lang, ok := i18n.Parse(r.PostFormValue(i18n.LangParam)); ok {
		i18n.SetLanguageCookie(w, lang)
	} else {
		i18n.MarkPromptSeen(w)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// formFromRequest rebuilds the RSVP form from a posted page.
func formFromRequest(r *http.Request, lang model.Language) *rsvp.Form {
	form := rsvp.NewForm(lang)
	if posted, ok := i18n.Parse(r.PostFormValue("language")); ok {
		form.Language = posted
	}
	form.GuestName = r.PostFormValue("guest_name")
	for i, name := range r.PostForm["additional_guest"] {
		form.AddGuest()
		form.UpdateGuest(i, name)
	}
	form.Phone = r.PostFormValue("phone")
	form.NeedsAccommodation = r.PostFormValue("accommodation") != ""
	form.NeedsTransport = r.PostFormValue("transport") != ""
	for _, option := range r.PostForm["volunteer"] {
		if !slices.Contains(form.Volunteer, option) {
			form.ToggleVolunteer(option)
		}
	}
	form.Comments = r.PostFormValue("comments")
	return form
}

// handleRSVPPage drives the RSVP form without JavaScript. The action button
// either edits the guest list or submits the reply.
func (s *Server) handleRSVPPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/#rsvp", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, errInvalidData, http.StatusBadRequest)
		return
	}
	res := i18n.Resolve(r)
	form := formFromRequest(r, res.Language)

	action := r.PostFormValue("action")
	switch {
	case action == "add_guest":
		form.AddGuest()
		s.renderIndex(w, r, http.StatusOK, res, form, nil)
		return
	case strings.HasPrefix(action, "remove_guest:"):
		if idx, err := strconv.Atoi(strings.TrimPrefix(action, "remove_guest:")); err == nil {
			form.RemoveGuest(idx)
		}
		s.renderIndex(w, r, http.StatusOK, res, form, nil)
		return
	}

	in, err := form.Submit()
	if err != nil {
		s.renderIndex(w, r, http.StatusBadRequest, res, form, map[string][]string{
			"guestName": {rsvp.NameMessage},
		})
		return
	}
	_, submitErr := s.submitRSVP(r.Context(), in)
	_ = form.Resolve(submitErr)

	var verr *validation.Error
	switch {
	case submitErr == nil:
		// Redirect so a refresh does not store the reply twice.
		q := url.Values{rsvpResultParam: {rsvpResultOK}}
		if res.Persist {
			q.Set(i18n.LangParam, string(res.Language))
		}
		http.Redirect(w, r, "/?"+q.Encode()+"#rsvp", http.StatusSeeOther)
	case errors.As(submitErr, &verr):
		s.renderIndex(w, r, http.StatusBadRequest, res, form, verr.Details.FieldErrors)
	default:
		s.renderIndex(w, r, http.StatusInternalServerError, res, form, nil)
	}
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	res := resolveLanguage(w, r)
	page := adminLoginPage{
		pageBase: s.base(r, res.Language, content.DefaultTheme()),
		Enabled:  s.auth.Enabled(),
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if s.auth.Authenticated(r) {
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		s.render(w, http.StatusOK, "admin_login", page)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, errInvalidData, http.StatusBadRequest)
			return
		}
		if _, err := s.auth.Login(w, r.PostFormValue("password")); err != nil {
			if !errors.Is(err, auth.ErrInvalidPassword) && !errors.Is(err, auth.ErrLoginDisabled) {
				s.logger.Errorf("web: create session failed: %v", err)
			}
			page.Error = page.T.T("admin.invalidPassword")
			s.render(w, http.StatusUnauthorized, "admin_login", page)
			return
		}
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		return
	}
	s.auth.Logout(w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		return
	}
	if !s.auth.Authenticated(r) {
		http.Redirect(w, r, "/admin/login", http.StatusFound)
		return
	}
	res := resolveLanguage(w, r)
	submissions, err := s.store.ListRSVPs(r.Context())
	if err != nil {
		s.logger.Errorf("web: list rsvps failed: %v", err)
		http.Error(w, errInternal, http.StatusInternalServerError)
		return
	}
	rows := make([]rsvpRow, 0, len(submissions))
	for _, sub := range submissions {
		rows = append(rows, rsvpRow{
			ID:               sub.ID,
			GuestName:        sub.GuestName,
			AdditionalGuests: sub.AdditionalGuests,
			Phone:            deref(sub.Phone),
			Accommodation:    sub.NeedsAccommodation,
			Transport:        sub.NeedsTransport,
			Volunteer:        sub.VolunteerOptions,
			Comments:         deref(sub.Comments),
			Date:             rsvp.FormatDateTime(sub.CreatedAt.In(s.location), res.Language),
		})
	}
	s.render(w, http.StatusOK, "admin", adminPage{
		adminBase: s.adminPageBase(r, res.Language, sectionRSVPs),
		Stats:    rsvp.Summarize(submissions),
		Rows:     rows,
	})
}

// handleAdminDelete serves POST /admin/rsvp/{id}/delete from the dashboard.
func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		return
	}
	if !s.auth.Authenticated(r) {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	id, ok := strings.CutSuffix(strings.TrimPrefix(r.URL.Path, "/admin/rsvp/"), "/delete")
	if !ok || id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}
	if err := s.deleteRSVP(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrRSVPNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, errInternal, http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
