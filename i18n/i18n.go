// Package i18n resolves the visitor's language and serves the fallback
// translation catalogues.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"time"

	"weddingsite/model"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LanguageCookieName stores the visitor's language preference.
	LanguageCookieName = "wedding-language"
	// PromptSeenCookieName marks that the language prompt was answered or dismissed.
	PromptSeenCookieName = "wedding-language-prompt-seen"

	preferenceMaxAge = 365 * 24 * time.Hour
)

// Catalog is a flat key/value translation table.
type Catalog map[string]string

// T returns the translation for key, or key itself when missing.
func (c Catalog) T(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return key
}

//go:embed translations/*.json
var fallbackFS embed.FS

var fallbacks = mustLoadFallbacks()

func mustLoadFallbacks() map[model.Language]Catalog {
	out := make(map[model.Language]Catalog, len(model.Languages))
	for _, lang := range model.Languages {
		raw, err := fallbackFS.ReadFile(fmt.Sprintf("translations/%s.json", lang))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing fallback catalogue %s: %v", lang, err))
		}
		var c Catalog
		if err := json.Unmarshal(raw, &c); err != nil {
			panic(fmt.Sprintf("i18n: invalid fallback catalogue %s: %v", lang, err))
		}
		out[lang] = c
	}
	return out
}

// Fallback returns a copy of the built-in catalogue for lang.
func Fallback(lang model.Language) Catalog {
	c, ok := fallbacks[lang]
	if !ok {
		c = fallbacks[Default]
	}
	return maps.Clone(c)
}

// Default is the language shown when nothing else applies.
const Default = model.Hungarian

// Parse maps a raw language value onto a supported language.
func Parse(raw string) (model.Language, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "", false
	}
	if lang := model.Language(raw); lang.IsValid() {
		return lang, true
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	lang := model.Language(base.String())
	if !lang.IsValid() {
		return "", false
	}
	return lang, true
}

// Resolution is the outcome of resolving the request language.
type Resolution struct {
	Language model.Language
	// Saved is true when the language came from an explicit choice
	// (query parameter or cookie) rather than the default.
	Saved bool
	// Persist is true when the choice came from the query parameter and
	// should be written back as a cookie.
	Persist bool
}

// Resolve picks the request language: query parameter, then cookie, then
// Default. The device language never selects the page language; it only
// decides whether ShouldPrompt offers a choice.
func Resolve(r *http.Request) Resolution {
	if r == nil {
		return Resolution{Language: Default}
	}
	if lang, ok := Parse(r.URL.Query().Get(LangParam)); ok {
		return Resolution{Language: lang, Saved: true, Persist: true}
	}
	if cookie, err := r.Cookie(LanguageCookieName); err == nil {
		if lang, ok := Parse(cookie.Value); ok {
			return Resolution{Language: lang, Saved: true}
		}
	}
	return Resolution{Language: Default}
}

// DeviceLanguage returns the first entry of the Accept-Language header,
// lowercased, or "" when there is none.
func DeviceLanguage(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return ""
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	return strings.ToLower(strings.TrimSpace(first))
}

// ShouldPrompt reports whether the language prompt should be shown: no saved
// language, the prompt was never answered, and the device language is known
// and not Hungarian.
func ShouldPrompt(r *http.Request, res Resolution) bool {
	if res.Saved {
		return false
	}
	if _, err := r.Cookie(PromptSeenCookieName); err == nil {
		return false
	}
	device := DeviceLanguage(r)
	if device == "" || device == "*" {
		return false
	}
	lang, ok := Parse(device)
	return !ok || lang != model.Hungarian
}

// SetLanguageCookie persists the selected language and marks the prompt as seen.
func SetLanguageCookie(w http.ResponseWriter, lang model.Language) {
	http.SetCookie(w, preferenceCookie(LanguageCookieName, string(lang)))
	MarkPromptSeen(w)
}

// MarkPromptSeen records that the visitor dismissed the prompt.
func MarkPromptSeen(w http.ResponseWriter) {
	http.SetCookie(w, preferenceCookie(PromptSeenCookieName, "true"))
}

func preferenceCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(preferenceMaxAge.Seconds()),
		SameSite: http.SameSiteLaxMode,
	}
}
