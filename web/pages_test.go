package web

import (
	"context"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"weddingsite/auth"
	"weddingsite/content"
	"weddingsite/i18n"
	"weddingsite/model"
	"weddingsite/rsvp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) postForm(t *testing.T, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(headerContentType, "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestIndexRendersDefaults(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="hu">`)
	assert.Contains(t, body, "Információk")
	assert.Contains(t, body, `src="/images/invitation-placeholder.svg"`)
	assert.Contains(t, body, "--color-primary: #d4a574;")
	assert.Contains(t, body, "family=Playfair+Display")
	assert.Contains(t, body, `<h1 class="font-serif`)
	assert.NotContains(t, body, `action="/language"`, "no prompt without a device language")

	style := html.UnescapeString(body)
	assert.Contains(t, style, `--font-heading: "Playfair Display", serif;`)
	assert.Contains(t, style, `--font-body: "Lora", serif;`)
	assert.NotContains(t, style, "var(--font-playfair")
}

func TestIndexRendersStoredContent(t *testing.T) {
	env := newTestEnv(t)
	info := model.InfoContent{
		MainText:    "## Parkolás\n\nA [térkép](https://maps.example) segít.",
		Subsections: []model.InfoSubsection{{Title: "Szállás", Content: "**Panzió** a közelben"}},
	}
	support := model.SupportContent{
		Options:          []model.SupportOption{{Title: "Nászút", Description: "Köszönjük", Link: "https://bank.example"}},
		VolunteerOptions: []string{"Dekoráció", "Fotózás"},
	}
	_, err := env.store.UpsertSiteContent(context.Background(), content.Update{Info: &info, Support: &support})
	require.NoError(t, err)

	body := env.do(t, http.MethodGet, "/", "", false).Body.String()
	assert.Contains(t, body, `<h2 class="font-serif`)
	assert.Contains(t, body, `target="_blank"`)
	assert.Contains(t, body, "Szállás")
	assert.Contains(t, body, `<strong class="font-semibold text-primary">Panzió</strong>`)
	assert.Contains(t, body, `href="https://bank.example"`)
	assert.Contains(t, body, `value="Fotózás"`)
}

func TestIndexLanguageResolution(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="hu">`, "unsaved visitors get the default language")
	assert.Contains(t, body, "Információk")
	assert.Contains(t, body, `action="/language"`, "prompt shown for a non-Hungarian device")

	req = httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.Header.Set("Accept-Language", "en-US")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	cookie := findCookie(rec, i18n.LanguageCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "en", cookie.Value)
	assert.NotNil(t, findCookie(rec, i18n.PromptSeenCookieName))
	assert.NotContains(t, rec.Body.String(), `action="/language"`)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US")
	req.AddCookie(&http.Cookie{Name: i18n.PromptSeenCookieName, Value: "true"})
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.NotContains(t, rec.Body.String(), `action="/language"`)
}

func TestLanguagePromptAnswers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/language", url.Values{"lang": {"en"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, findCookie(rec, i18n.LanguageCookieName))
	assert.NotNil(t, findCookie(rec, i18n.PromptSeenCookieName))

	rec = env.postForm(t, "/language", url.Values{"dismiss": {"1"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Nil(t, findCookie(rec, i18n.LanguageCookieName))
	assert.NotNil(t, findCookie(rec, i18n.PromptSeenCookieName))
}

func TestRSVPPageSubmit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/rsvp", url.Values{
		"guest_name":       {"  Kovács Anna "},
		"additional_guest": {"Béla", "  "},
		"phone":            {""},
		"transport":        {"on"},
		"volunteer":        {"Dekoráció"},
		"language":         {"hu"},
		"action":           {"submit"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, "success redirects so a refresh cannot resubmit")
	location := rec.Header().Get("Location")
	assert.Equal(t, "/?rsvp=ok#rsvp", location)

	rec = env.do(t, http.MethodGet, location, "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Köszönjük a visszajelzést!")
	assert.NotContains(t, rec.Body.String(), "Kovács Anna", "fields are cleared after success")

	list, err := env.store.ListRSVPs(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Kovács Anna", list[0].GuestName)
	assert.Equal(t, []string{"Béla"}, list[0].AdditionalGuests)
	assert.Nil(t, list[0].Phone)
	assert.True(t, list[0].NeedsTransport)
	assert.Equal(t, []string{"Dekoráció"}, list[0].VolunteerOptions)
}

func TestRSVPPageErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/rsvp", url.Values{"guest_name": {"A"}, "comments": {"Hello"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, rsvp.NameMessage)
	assert.Contains(t, body, "Hiba történt.")
	assert.Contains(t, body, `value="A"`, "fields are kept after an error")
	assert.Contains(t, body, ">Hello</textarea>")

	rec = env.postForm(t, "/rsvp", url.Values{"guest_name": {"   "}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list, err := env.store.ListRSVPs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRSVPPageGuestEditing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm(t, "/rsvp", url.Values{"guest_name": {"Anna"}, "additional_guest": {"Béla"}, "action": {"add_guest"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, strings.Count(rec.Body.String(), `name="additional_guest"`))

	rec = env.postForm(t, "/rsvp", url.Values{"guest_name": {"Anna"}, "additional_guest": {"Béla", "Cecil"}, "action": {"remove_guest:0"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `name="additional_guest"`))
	assert.Contains(t, body, `value="Cecil"`)
	assert.NotContains(t, body, `value="Béla"`)

	list, err := env.store.ListRSVPs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "editing the guest list does not submit")
}

func TestAdminPages(t *testing.T) {
	env := newTestEnv(t)
	sub := model.RsvpSubmission{GuestName: "Kovács Anna", AdditionalGuests: []string{"Béla"}, NeedsAccommodation: true}
	require.NoError(t, env.store.CreateRSVP(context.Background(), &sub))

	rec := env.do(t, http.MethodGet, "/admin", "", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/admin/login", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `type="password"`)

	rec = env.postForm(t, "/admin/login", url.Values{"password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hibás jelszó")

	rec = env.postForm(t, "/admin/login", url.Values{"password": {testPassword}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	session := findCookie(rec, auth.CookieName)
	require.NotNil(t, session)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Kovács Anna")
	assert.Contains(t, body, "+ Béla")
	assert.Contains(t, body, `<span class="stat">2</span>`)
	assert.Contains(t, body, "/admin/rsvp/"+sub.ID+"/delete")

	rec = env.postForm(t, "/admin/rsvp/"+sub.ID+"/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	rec = env.postForm(t, "/admin/rsvp/"+sub.ID+"/delete", url.Values{}, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Contains(t, rec.Body.String(), "Még nincs visszajelzés.")

	rec = env.postForm(t, "/admin/logout", url.Values{}, session)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestUnknownPage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/static/site.css", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
