// Package theme derives presentation state from a final configuration: CSS
// custom properties, the dark mode switch and document metadata. It writes
// through sink interfaces so the derivation runs without a browser.
package theme

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/aellingwood/linkforge/internal/config"
)

// CSS custom properties written by the applicator.
const (
	VarPrimaryColor      = "--primary-color"
	VarPrimaryRGB        = "--primary-rgb"
	VarPrimaryColorHover = "--primary-color-hover"
	VarFontFamily        = "--font-family"
	VarBackgroundImage   = "--background-image"
	VarMaxWidth          = "--max-width"
	VarSpacing           = "--spacing"
)

// StyleSink receives style side effects.
type StyleSink interface {
	SetVariable(name, value string)
	RemoveVariable(name string)
	SetDarkMode(dark bool)
}

// MetadataSink receives document metadata.
type MetadataSink interface {
	SetTitle(title string)
	SetMeta(name, content string)
	// SetFavicon sets the icon link; an empty href removes it.
	SetFavicon(href string)
}

// Preference reports the viewer's color scheme preference.
type Preference interface {
	PrefersDark() bool
}

// PreferenceFunc adapts a function to Preference.
type PreferenceFunc func() bool

func (f PreferenceFunc) PrefersDark() bool { return f() }

// Static is a fixed preference.
type Static bool

func (s Static) PrefersDark() bool { return bool(s) }

var maxWidths = map[string]string{
	"sm":   "24rem",
	"md":   "28rem",
	"lg":   "32rem",
	"xl":   "36rem",
	"full": "100%",
}

var spacings = map[string]string{
	"compact": "0.5rem",
	"normal":  "1rem",
	"relaxed": "1.5rem",
}

// hoverDarken is how far the hover color drops in HSL lightness.
const hoverDarken = 0.08

// EffectiveColorScheme resolves scheme to light or dark. For auto the
// preference is asked on every call. A nil preference means light.
func EffectiveColorScheme(scheme string, pref Preference) string {
	switch scheme {
	case config.SchemeDark:
		return config.SchemeDark
	case config.SchemeAuto:
		if pref != nil && pref.PrefersDark() {
			return config.SchemeDark
		}
	}
	return config.SchemeLight
}

// ApplyColorScheme switches dark mode on or off for scheme.
func ApplyColorScheme(sink StyleSink, scheme string, pref Preference) {
	sink.SetDarkMode(EffectiveColorScheme(scheme, pref) == config.SchemeDark)
}

// ApplyThemeVariables writes the color, font and background variables for t.
func ApplyThemeVariables(sink StyleSink, t config.Theme) {
	sink.SetVariable(VarPrimaryColor, t.PrimaryColor)
	if c, err := colorful.Hex(t.PrimaryColor); err == nil {
		r, g, b := c.RGB255()
		sink.SetVariable(VarPrimaryRGB, fmt.Sprintf("%d, %d, %d", r, g, b))
		sink.SetVariable(VarPrimaryColorHover, Darken(c, hoverDarken).Hex())
	} else {
		sink.RemoveVariable(VarPrimaryRGB)
		sink.RemoveVariable(VarPrimaryColorHover)
	}

	sink.SetVariable(VarFontFamily, config.FontStack(t.FontFamily))

	if t.BackgroundStyle == config.BackgroundImage && t.BackgroundImage != "" {
		sink.SetVariable(VarBackgroundImage, fmt.Sprintf("url(%q)", t.BackgroundImage))
	} else {
		sink.RemoveVariable(VarBackgroundImage)
	}
}

// ApplyLayoutVariables writes the width and spacing variables for l.
func ApplyLayoutVariables(sink StyleSink, l config.Layout) {
	setMapped(sink, VarMaxWidth, l.MaxWidth, maxWidths)
	setMapped(sink, VarSpacing, l.Spacing, spacings)
}

// UpdateSEOMetadata writes title, description, keywords and favicon. The
// values are already sanitized and are written verbatim; an empty favicon
// clears the previous one.
func UpdateSEOMetadata(sink MetadataSink, s config.SEO) {
	sink.SetTitle(s.Title)
	sink.SetMeta("description", s.Description)
	sink.SetMeta("keywords", s.Keywords)
	sink.SetFavicon(s.Favicon)
}

// Apply derives every side effect from c. Turning off
// advanced.enableDarkMode pins the page to light.
func Apply(style StyleSink, meta MetadataSink, c *config.Config, pref Preference) {
	applyScheme(style, c, pref)
	ApplyThemeVariables(style, c.Theme)
	ApplyLayoutVariables(style, c.Layout)
	UpdateSEOMetadata(meta, c.SEO)
}

func applyScheme(style StyleSink, c *config.Config, pref Preference) {
	scheme := c.Theme.ColorScheme
	if !c.Advanced.EnableDarkMode {
		scheme = config.SchemeLight
	}
	ApplyColorScheme(style, scheme, pref)
}

// Darken lowers the HSL lightness of c by amount, stopping at black.
func Darken(c colorful.Color, amount float64) colorful.Color {
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, math.Max(l-amount, 0)).Clamped()
}

func setMapped(sink StyleSink, name, key string, values map[string]string) {
	if v, ok := values[key]; ok {
		sink.SetVariable(name, v)
		return
	}
	sink.RemoveVariable(name)
}
