// Package content holds the site content defaults, the partial update
// payload accepted by the admin console, and theme helpers.
package content

import (
	"weddingsite/model"
	"weddingsite/validation"
)

const (
	DefaultInvitationImage = "/images/invitation-placeholder.svg"
	legacyInvitationImage  = "/images/invitation-placeholder.jpg"
	DefaultMainText        = "# Hamarosan\n\nAz eskuvoi informaciok hamarosan elerhetok lesznek."
)

// DefaultTheme is the palette used until the admin picks one.
func DefaultTheme() model.ThemeConfig {
	return model.ThemeConfig{
		Primary:     "#d4a574",
		Secondary:   "#f5f0e8",
		Accent:      "#8b7355",
		FontHeading: "Playfair Display",
		FontBody:    "Lora",
	}
}

// Default returns the content served when nothing has been stored yet.
func Default() model.SiteContent {
	return model.SiteContent{
		ID:    model.MainContentID,
		Theme: DefaultTheme(),
		Hero: model.HeroContent{
			InvitationImage: DefaultInvitationImage,
			ShowScrollHint:  true,
		},
		Info: model.InfoContent{
			MainText:    DefaultMainText,
			Subsections: []model.InfoSubsection{},
		},
		Support: model.SupportContent{
			Options:          []model.SupportOption{},
			VolunteerOptions: []string{},
		},
		About: model.AboutContent{
			Images: []model.GalleryImage{},
		},
	}
}

// InvitationImage returns the hero image to render. Empty values and the
// retired JPEG placeholder map to the SVG placeholder.
func InvitationImage(hero model.HeroContent) string {
	if hero.InvitationImage == "" || hero.InvitationImage == legacyInvitationImage {
		return DefaultInvitationImage
	}
	return hero.InvitationImage
}

// Update is a partial content update. Nil sections are left untouched.
type Update struct {
	Theme   *model.ThemeConfig    `json:"theme,omitempty"`
	Hero    *model.HeroContent    `json:"hero,omitempty"`
	Info    *model.InfoContent    `json:"info,omitempty"`
	Support *model.SupportContent `json:"support,omitempty"`
	About   *model.AboutContent   `json:"about,omitempty"`
}

// Sections returns the names of the sections present in the update.
func (u Update) Sections() []string {
	var out []string
	if u.Theme != nil {
		out = append(out, "theme")
	}
	if u.Hero != nil {
		out = append(out, "hero")
	}
	if u.Info != nil {
		out = append(out, "info")
	}
	if u.Support != nil {
		out = append(out, "support")
	}
	if u.About != nil {
		out = append(out, "about")
	}
	return out
}

// ApplyTo overwrites the sections of c present in u.
func (u Update) ApplyTo(c *model.SiteContent) {
	if u.Theme != nil {
		c.Theme = *u.Theme
	}
	if u.Hero != nil {
		c.Hero = *u.Hero
	}
	if u.Info != nil {
		c.Info = *u.Info
	}
	if u.Support != nil {
		c.Support = *u.Support
	}
	if u.About != nil {
		c.About = *u.About
	}
	Normalize(c)
}

// Normalize replaces nil slices with empty ones so JSON clients always see arrays.
func Normalize(c *model.SiteContent) {
	if c.Info.Subsections == nil {
		c.Info.Subsections = []model.InfoSubsection{}
	}
	if c.Support.Options == nil {
		c.Support.Options = []model.SupportOption{}
	}
	if c.Support.VolunteerOptions == nil {
		c.Support.VolunteerOptions = []string{}
	}
	if c.About.Images == nil {
		c.About.Images = []model.GalleryImage{}
	}
}

var validate = validation.New(map[string]string{
	"hexcolor6": "Must be valid hex color",
})

// Validate checks every present section.
func (u Update) Validate() error {
	return validate.Struct(u)
}
