package content

import (
	"fmt"
	"strings"

	"weddingsite/model"
	"weddingsite/validation"
)

// FontOptions are the fonts the admin console offers.
var FontOptions = []string{
	"Playfair Display",
	"Cormorant Garamond",
	"Great Vibes",
	"Lora",
	"Merriweather",
	"Crimson Text",
	"Libre Baskerville",
}

// fontFallbacks is the generic family used behind each offered font while
// the web font loads.
var fontFallbacks = map[string]string{
	"Playfair Display":   "serif",
	"Cormorant Garamond": "serif",
	"Great Vibes":        "cursive",
	"Lora":               "serif",
	"Merriweather":       "serif",
	"Crimson Text":       "serif",
	"Libre Baskerville":  "serif",
}

// FontFamily returns the CSS font-family value for a font: the quoted family
// followed by a generic fallback.
func FontFamily(font string) string {
	font = strings.TrimSpace(strings.ReplaceAll(font, `"`, ""))
	if font == "" {
		return "serif"
	}
	generic, ok := fontFallbacks[font]
	if !ok {
		generic = "serif"
	}
	return fmt.Sprintf("%q, %s", font, generic)
}

// GoogleFontsFamily returns the css2 family parameter for a known font.
func GoogleFontsFamily(font string) (string, bool) {
	if _, ok := fontFallbacks[font]; !ok {
		return "", false
	}
	return strings.ReplaceAll(font, " ", "+"), true
}

// ThemeCSS renders the custom properties consumed by the stylesheet.
// Colours that are not #rrggbb fall back to the default palette.
func ThemeCSS(theme model.ThemeConfig) string {
	def := DefaultTheme()
	pick := func(value, fallback string) string {
		if validation.IsHexColor(value) {
			return value
		}
		return fallback
	}
	var b strings.Builder
	fmt.Fprintf(&b, "--color-primary: %s;", pick(theme.Primary, def.Primary))
	fmt.Fprintf(&b, " --color-secondary: %s;", pick(theme.Secondary, def.Secondary))
	fmt.Fprintf(&b, " --color-accent: %s;", pick(theme.Accent, def.Accent))
	fmt.Fprintf(&b, " --font-heading: %s;", FontFamily(theme.FontHeading))
	fmt.Fprintf(&b, " --font-body: %s;", FontFamily(theme.FontBody))
	return b.String()
}
