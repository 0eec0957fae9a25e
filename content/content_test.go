package content

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"weddingsite/model"
	"weddingsite/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	c := Default()
	assert.Equal(t, "main", c.ID)
	assert.Equal(t, "/images/invitation-placeholder.svg", c.Hero.InvitationImage)
	assert.True(t, c.Hero.ShowScrollHint)
	assert.Equal(t, "#d4a574", c.Theme.Primary)
	assert.NotNil(t, c.Support.VolunteerOptions)

	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"subsections":[]`)
	assert.Contains(t, string(raw), `"images":[]`)
}

func TestUpdateApplyToOnlyTouchesPresentSections(t *testing.T) {
	c := Default()
	var u Update
	require.NoError(t, json.Unmarshal([]byte(`{"hero":{"invitationImage":"/images/a.jpg","showScrollHint":false}}`), &u))

	u.ApplyTo(&c)
	assert.Equal(t, "/images/a.jpg", c.Hero.InvitationImage)
	assert.False(t, c.Hero.ShowScrollHint)
	assert.Equal(t, DefaultTheme(), c.Theme)
	assert.Equal(t, DefaultMainText, c.Info.MainText)
	assert.Equal(t, []string{"hero"}, u.Sections())
}

func TestUpdateValidate(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"bad colour", `{"theme":{"primary":"red","secondary":"#ffffff","accent":"#000000","fontHeading":"Lora","fontBody":"Lora"}}`, "theme.primary"},
		{"missing font", `{"theme":{"primary":"#ffffff","secondary":"#ffffff","accent":"#000000","fontHeading":"","fontBody":"Lora"}}`, "theme.fontHeading"},
		{"missing hero image", `{"hero":{"invitationImage":"","showScrollHint":true}}`, "hero.invitationImage"},
		{"subsection title", `{"info":{"mainText":"x","subsections":[{"title":"","content":"y"}]}}`, "info.subsections[0].title"},
		{"support link", `{"support":{"intro":"","options":[{"title":"Bank","description":"","link":"nope"}],"volunteerOptions":[]}}`, "support.options[0].link"},
		{"gallery src", `{"about":{"story":"","images":[{"src":""}]}}`, "about.images[0].src"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var u Update
			require.NoError(t, json.Unmarshal([]byte(tc.body), &u))
			err := u.Validate()
			require.Error(t, err)
			var verr *validation.Error
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Details.FieldErrors, tc.field)
			section, _, _ := strings.Cut(tc.field, ".")
			assert.NotContains(t, verr.Details.FieldErrors, section)
		})
	}
}

func TestUpdateValidateAcceptsEmptyLinkAndEmptyUpdate(t *testing.T) {
	var u Update
	require.NoError(t, u.Validate())

	u.Support = &model.SupportContent{
		Options: []model.SupportOption{{Title: "Gift", Link: ""}, {Title: "Bank", Link: "https://example.com/pay"}},
	}
	require.NoError(t, u.Validate())
}

func TestThemeCSS(t *testing.T) {
	css := ThemeCSS(model.ThemeConfig{
		Primary:     "#112233",
		Secondary:   "bogus",
		Accent:      "#8b7355",
		FontHeading: "Great Vibes",
		FontBody:    "Comic Sans",
	})
	assert.Contains(t, css, "--color-primary: #112233;")
	assert.Contains(t, css, "--color-secondary: #f5f0e8;")
	assert.Contains(t, css, `--font-heading: "Great Vibes", cursive;`)
	assert.Contains(t, css, `--font-body: "Comic Sans", serif;`)
	assert.NotContains(t, css, "var(")
}

func TestFontFamily(t *testing.T) {
	for _, font := range FontOptions {
		family := FontFamily(font)
		assert.True(t, strings.HasPrefix(family, `"`+font+`", `), family)
	}
	assert.Equal(t, "serif", FontFamily("  "))
	assert.Equal(t, `"Lora", serif`, FontFamily(`"Lora"`))
}

func TestGoogleFontsFamily(t *testing.T) {
	family, ok := GoogleFontsFamily("Playfair Display")
	assert.True(t, ok)
	assert.Equal(t, "Playfair+Display", family)

	_, ok = GoogleFontsFamily("Unknown")
	assert.False(t, ok)
}

func TestInvitationImage(t *testing.T) {
	assert.Equal(t, DefaultInvitationImage, InvitationImage(model.HeroContent{}))
	assert.Equal(t, DefaultInvitationImage, InvitationImage(model.HeroContent{InvitationImage: "/images/invitation-placeholder.jpg"}))
	assert.Equal(t, "/images/meghivo.png", InvitationImage(model.HeroContent{InvitationImage: "/images/meghivo.png"}))
}
