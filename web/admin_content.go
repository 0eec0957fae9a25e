package web

import (
	"errors"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"weddingsite/content"
	"weddingsite/i18n"
	"weddingsite/model"
	"weddingsite/validation"
)

const (
	actionSave    = "save"
	savedParam    = "saved"
	editLangParam = "edit"

	sectionRSVPs        = "rsvps"
	sectionTranslations = "translations"
)

type adminSection struct {
	Name  string
	Label string
}

// adminSections are the editor pages linked from the admin navigation, in
// menu order. The RSVP dashboard at /admin comes first.
var adminSections = []adminSection{
	{Name: "hero", Label: "admin.nav.hero"},
	{Name: "info", Label: "admin.nav.info"},
	{Name: "support", Label: "admin.nav.support"},
	{Name: "about", Label: "admin.nav.about"},
	{Name: "theme", Label: "admin.nav.theme"},
	{Name: sectionTranslations, Label: "admin.nav.translations"},
}

type adminBase struct {
	pageBase
	Section  string
	Sections []adminSection
}

func (s *Server) adminPageBase(r *http.Request, lang model.Language, section string) adminBase {
	return adminBase{
		pageBase: s.base(r, lang, content.DefaultTheme()),
		Section:  section,
		Sections: adminSections,
	}
}

type contentEditPage struct {
	adminBase
	Content     model.SiteContent
	Images      []string
	Fonts       []string
	Saved       bool
	Failed      bool
	FieldErrors map[string][]string
}

// contentEditor binds one site content section to its admin form.
type contentEditor struct {
	section string
	// read copies the posted fields into c.
	read func(r *http.Request, c *model.SiteContent)
	// edit applies a row action such as "remove_option:2" without saving.
	edit func(r *http.Request, c *model.SiteContent, action string)
	// update picks the section out of c for saving.
	update func(c *model.SiteContent) content.Update
}

var contentEditors = []contentEditor{
	{
		section: "hero",
		read: func(r *http.Request, c *model.SiteContent) {
			c.Hero.InvitationImage = strings.TrimSpace(r.PostFormValue("invitation_image"))
			c.Hero.ShowScrollHint = r.PostFormValue("show_scroll_hint") != ""
		},
		update: func(c *model.SiteContent) content.Update {
			return content.Update{Hero: &c.Hero}
		},
	},
	{
		section: "info",
		read: func(r *http.Request, c *model.SiteContent) {
			c.Info.MainText = postedText(r, "main_text")
			titles := r.PostForm["subsection_title"]
			bodies := r.PostForm["subsection_content"]
			c.Info.Subsections = make([]model.InfoSubsection, len(titles))
			for i, title := range titles {
				c.Info.Subsections[i] = model.InfoSubsection{
					Title:   strings.TrimSpace(title),
					Content: normalizeNewlines(at(bodies, i)),
				}
			}
		},
		edit: func(_ *http.Request, c *model.SiteContent, action string) {
			switch {
			case action == "add_subsection":
				c.Info.Subsections = append(c.Info.Subsections, model.InfoSubsection{})
			case rowActionIs(action, "remove_subsection"):
				c.Info.Subsections = removeAt(c.Info.Subsections, rowIndex(action))
			}
		},
		update: func(c *model.SiteContent) content.Update {
			return content.Update{Info: &c.Info}
		},
	},
	{
		section: "support",
		read: func(r *http.Request, c *model.SiteContent) {
			c.Support.Intro = postedText(r, "intro")
			titles := r.PostForm["option_title"]
			descriptions := r.PostForm["option_description"]
			links := r.PostForm["option_link"]
			c.Support.Options = make([]model.SupportOption, len(titles))
			for i, title := range titles {
				c.Support.Options[i] = model.SupportOption{
					Title:       strings.TrimSpace(title),
					Description: normalizeNewlines(at(descriptions, i)),
					Link:        strings.TrimSpace(at(links, i)),
				}
			}
			c.Support.VolunteerOptions = slices.Clone(r.PostForm["volunteer_option"])
		},
		edit: func(_ *http.Request, c *model.SiteContent, action string) {
			switch {
			case action == "add_option":
				c.Support.Options = append(c.Support.Options, model.SupportOption{})
			case rowActionIs(action, "remove_option"):
				c.Support.Options = removeAt(c.Support.Options, rowIndex(action))
			case action == "add_volunteer":
				c.Support.VolunteerOptions = append(c.Support.VolunteerOptions, "")
			case rowActionIs(action, "remove_volunteer"):
				c.Support.VolunteerOptions = removeAt(c.Support.VolunteerOptions, rowIndex(action))
			}
		},
		update: func(c *model.SiteContent) content.Update {
			support := c.Support
			support.VolunteerOptions = make([]string, 0, len(c.Support.VolunteerOptions))
			for _, option := range c.Support.VolunteerOptions {
				if option = strings.TrimSpace(option); option != "" {
					support.VolunteerOptions = append(support.VolunteerOptions, option)
				}
			}
			return content.Update{Support: &support}
		},
	},
	{
		section: "about",
		read: func(r *http.Request, c *model.SiteContent) {
			c.About.Story = postedText(r, "story")
			sources := r.PostForm["image_src"]
			captions := r.PostForm["image_caption"]
			c.About.Images = make([]model.GalleryImage, len(sources))
			for i, src := range sources {
				c.About.Images[i] = model.GalleryImage{
					Src:     strings.TrimSpace(src),
					Caption: strings.TrimSpace(at(captions, i)),
				}
			}
		},
		edit: func(r *http.Request, c *model.SiteContent, action string) {
			switch {
			case action == "add_image":
				src := strings.TrimSpace(r.PostFormValue("new_image"))
				if src == "" || slices.ContainsFunc(c.About.Images, func(img model.GalleryImage) bool { return img.Src == src }) {
					return
				}
				c.About.Images = append(c.About.Images, model.GalleryImage{Src: src})
			case rowActionIs(action, "remove_image"):
				c.About.Images = removeAt(c.About.Images, rowIndex(action))
			case rowActionIs(action, "move_image_up"):
				i := rowIndex(action)
				c.About.Images = swap(c.About.Images, i, i-1)
			case rowActionIs(action, "move_image_down"):
				i := rowIndex(action)
				c.About.Images = swap(c.About.Images, i, i+1)
			}
		},
		update: func(c *model.SiteContent) content.Update {
			return content.Update{About: &c.About}
		},
	},
	{
		section: "theme",
		read: func(r *http.Request, c *model.SiteContent) {
			c.Theme = model.ThemeConfig{
				Primary:     strings.TrimSpace(r.PostFormValue("primary")),
				Secondary:   strings.TrimSpace(r.PostFormValue("secondary")),
				Accent:      strings.TrimSpace(r.PostFormValue("accent")),
				FontHeading: strings.TrimSpace(r.PostFormValue("font_heading")),
				FontBody:    strings.TrimSpace(r.PostFormValue("font_body")),
			}
		},
		update: func(c *model.SiteContent) content.Update {
			return content.Update{Theme: &c.Theme}
		},
	},
}

// redirectToLogin sends anonymous admin page requests to the login form.
func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) bool {
	if s.auth.Authenticated(r) {
		return false
	}
	status := http.StatusFound
	if r.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	http.Redirect(w, r, "/admin/login", status)
	return true
}

// handleContentEditor serves GET and POST /admin/<section>. Row actions
// re-render the form; the save action validates the section, stores it and
// redirects back with a saved banner.
func (s *Server) handleContentEditor(ed contentEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.redirectToLogin(w, r) {
			return
		}
		res := resolveLanguage(w, r)
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			c := s.loadContent(r)
			s.renderContentEditor(w, r, http.StatusOK, res.Language, ed.section, c, func(p *contentEditPage) {
				p.Saved = r.URL.Query().Get(savedParam) == "1"
			})
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				http.Error(w, errInvalidData, http.StatusBadRequest)
				return
			}
			c := s.loadContent(r)
			ed.read(r, &c)
			if action := r.PostFormValue("action"); action != "" && action != actionSave {
				if ed.edit != nil {
					ed.edit(r, &c, action)
				}
				content.Normalize(&c)
				s.renderContentEditor(w, r, http.StatusOK, res.Language, ed.section, c, nil)
				return
			}
			update := ed.update(&c)
			if err := update.Validate(); err != nil {
				fieldErrors := map[string][]string{}
				var verr *validation.Error
				if errors.As(err, &verr) {
					fieldErrors = verr.Details.FieldErrors
				}
				s.renderContentEditor(w, r, http.StatusBadRequest, res.Language, ed.section, c, func(p *contentEditPage) {
					p.FieldErrors = fieldErrors
				})
				return
			}
			if _, err := s.saveContent(r.Context(), update); err != nil {
				s.renderContentEditor(w, r, http.StatusInternalServerError, res.Language, ed.section, c, func(p *contentEditPage) {
					p.Failed = true
				})
				return
			}
			http.Redirect(w, r, "/admin/"+ed.section+"?"+savedParam+"=1", http.StatusSeeOther)
		default:
			http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) renderContentEditor(w http.ResponseWriter, r *http.Request, status int, lang model.Language, section string, c model.SiteContent, with func(*contentEditPage)) {
	images, err := s.images.List()
	if err != nil {
		s.logger.Errorf("web: list images failed: %v", err)
	}
	page := contentEditPage{
		adminBase: s.adminPageBase(r, lang, section),
		Content:   c,
		Images:    images,
		Fonts:     content.FontOptions,
	}
	if with != nil {
		with(&page)
	}
	s.render(w, status, "admin_"+section, page)
}

type translationEntry struct {
	Key   string
	Value string
}

type translationsEditPage struct {
	adminBase
	Edit        model.Language
	Languages   []model.Language
	Entries     []translationEntry
	NewKey      string
	NewValue    string
	Saved       bool
	Failed      bool
	FieldErrors map[string][]string
}

// handleTranslationsEditor serves the key/value editor for one language at a
// time. Stored catalogues are shown over the built-in keys, so keys added in a
// release can be translated before anyone saved them.
func (s *Server) handleTranslationsEditor(w http.ResponseWriter, r *http.Request) {
	if s.redirectToLogin(w, r) {
		return
	}
	res := resolveLanguage(w, r)
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		edit, ok := i18n.Parse(r.URL.Query().Get(editLangParam))
		if !ok {
			edit = i18n.Default
		}
		s.renderTranslationsEditor(w, r, http.StatusOK, res.Language, translationsEditPage{
			Edit:    edit,
			Entries: entriesOf(s.catalogFor(r, edit)),
			Saved:   r.URL.Query().Get(savedParam) == "1",
		})
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, errInvalidData, http.StatusBadRequest)
			return
		}
		edit, ok := i18n.Parse(r.PostFormValue(editLangParam))
		if !ok {
			http.Error(w, errInvalidData, http.StatusBadRequest)
			return
		}
		edited := map[string]string{}
		values := r.PostForm["value"]
		for i, key := range r.PostForm["key"] {
			if key = strings.TrimSpace(key); key != "" {
				edited[key] = at(values, i)
			}
		}
		page := translationsEditPage{
			Edit:     edit,
			NewKey:   strings.TrimSpace(r.PostFormValue("new_key")),
			NewValue: r.PostFormValue("new_value"),
		}
		if page.NewKey != "" {
			if _, exists := edited[page.NewKey]; exists {
				page.Entries = entriesOf(edited)
				page.FieldErrors = map[string][]string{
					"newKey": {s.catalogFor(r, res.Language).T("admin.translations.duplicate")},
				}
				s.renderTranslationsEditor(w, r, http.StatusBadRequest, res.Language, page)
				return
			}
			edited[page.NewKey] = page.NewValue
		}

		catalogs, err := s.loadTranslations(r)
		if err != nil {
			s.logger.Errorf("web: fetch translations failed: %v", err)
			catalogs = map[model.Language]map[string]string{}
		}
		catalogs[edit] = edited
		if _, err := s.saveTranslations(r.Context(), catalogs); err != nil {
			page.Entries = entriesOf(edited)
			page.Failed = true
			s.renderTranslationsEditor(w, r, http.StatusInternalServerError, res.Language, page)
			return
		}
		q := url.Values{editLangParam: {string(edit)}, savedParam: {"1"}}
		http.Redirect(w, r, "/admin/translations?"+q.Encode(), http.StatusSeeOther)
	default:
		http.Error(w, errMethodNotAllow, http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderTranslationsEditor(w http.ResponseWriter, r *http.Request, status int, lang model.Language, page translationsEditPage) {
	page.adminBase = s.adminPageBase(r, lang, sectionTranslations)
	page.Languages = model.Languages
	s.render(w, status, "admin_translations", page)
}

func entriesOf(catalog map[string]string) []translationEntry {
	keys := slices.Sorted(maps.Keys(catalog))
	out := make([]translationEntry, 0, len(keys))
	for _, key := range keys {
		out = append(out, translationEntry{Key: key, Value: catalog[key]})
	}
	return out
}

// postedText returns a textarea value with browser line endings normalised.
func postedText(r *http.Request, name string) string {
	return normalizeNewlines(r.PostFormValue(name))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

func at(list []string, i int) string {
	if i < 0 || i >= len(list) {
		return ""
	}
	return list[i]
}

func rowActionIs(action, name string) bool {
	return strings.HasPrefix(action, name+":")
}

// rowIndex parses the row number of an action like "remove_image:3", or -1.
func rowIndex(action string) int {
	_, raw, ok := strings.Cut(action, ":")
	if !ok {
		return -1
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return i
}

func removeAt[T any](list []T, i int) []T {
	if i < 0 || i >= len(list) {
		return list
	}
	return slices.Delete(list, i, i+1)
}

func swap[T any](list []T, i, j int) []T {
	if i < 0 || j < 0 || i >= len(list) || j >= len(list) {
		return list
	}
	list[i], list[j] = list[j], list[i]
	return list
}
