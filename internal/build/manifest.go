package build

import (
	"encoding/json"
	"fmt"
	"html"

	"github.com/aellingwood/linkforge/internal/config"
)

// ManifestFile is the web app manifest written when advanced.enablePWA is set.
const ManifestFile = "manifest.webmanifest"

const shortNameLength = 12

// Page background colors, matching the built-in stylesheet.
const (
	lightBackground = "#f8fafc"
	darkBackground  = "#0f172a"
)

type webManifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Description     string         `json:"description,omitempty"`
	StartURL        string         `json:"start_url"`
	Display         string         `json:"display"`
	ThemeColor      string         `json:"theme_color"`
	BackgroundColor string         `json:"background_color"`
	Icons           []manifestIcon `json:"icons,omitempty"`
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
}

// GenerateManifest produces the web app manifest for c. The sanitized text
// of c is unescaped, since the manifest is JSON rather than HTML.
func GenerateManifest(c *config.Config, dark bool) ([]byte, error) {
	name := html.UnescapeString(c.Profile.Name)
	short := []rune(name)
	if len(short) > shortNameLength {
		short = short[:shortNameLength]
	}

	m := webManifest{
		Name:            name,
		ShortName:       string(short),
		Description:     html.UnescapeString(c.SEO.Description),
		StartURL:        ".",
		Display:         "standalone",
		ThemeColor:      c.Theme.PrimaryColor,
		BackgroundColor: lightBackground,
	}
	if dark {
		m.BackgroundColor = darkBackground
	}

	icon := c.SEO.Favicon
	if icon == "" {
		icon = c.Profile.Avatar
	}
	if icon != "" {
		m.Icons = []manifestIcon{{Src: icon, Sizes: "any"}}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest: %w", err)
	}
	return append(data, '\n'), nil
}
