package template

import (
	"fmt"
	"html/template"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/aellingwood/linkforge/internal/config"
)

// FuncMap returns the custom template functions available to all layouts.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"slugify":   slugify,
		"safeHTML":  safeHTML,
		"socialURL": socialURL,
		"icon":      icon,
		"absURL":    absURL,
		"dict":      dict,

		// Replaced by the Engine with a closure over its templates.
		"partial": func(name string, ctx any) template.HTML {
			return ""
		},
	}
}

// slugify converts a string to a URL-safe slug: lowercase ASCII letters and
// digits separated by single hyphens. Accents are dropped.
func slugify(s string) string {
	s = strings.ToLower(norm.NFD.String(s))
	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		case !prevHyphen && b.Len() > 0:
			b.WriteRune('-')
			prevHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// safeHTML marks a string as safe HTML so templates will not escape it.
func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

// socialURL returns the profile URL for a username on the platform with the
// given key, or "" for an unknown platform.
func socialURL(key, username string) string {
	p, ok := config.LookupPlatform(key)
	if !ok || username == "" {
		return ""
	}
	return p.URL(username)
}

// iconPaths holds a single SVG path per icon on a 24x24 grid.
var iconPaths = map[string]string{
	"link":      "M10 13a5 5 0 0 0 7.54.54l3-3a5 5 0 0 0-7.07-7.07l-1.72 1.71M14 11a5 5 0 0 0-7.54-.54l-3 3a5 5 0 0 0 7.07 7.07l1.71-1.71",
	"globe":     "M12 2a10 10 0 1 0 0 20 10 10 0 0 0 0-20zM2 12h20M12 2a15 15 0 0 1 0 20 15 15 0 0 1 0-20",
	"mail":      "M4 4h16v16H4zM22 6l-10 7L2 6",
	"phone":     "M22 16.9v3a2 2 0 0 1-2.2 2A19.8 19.8 0 0 1 2.1 4.2 2 2 0 0 1 4.1 2h3a2 2 0 0 1 2 1.7l.7 3.4-2.2 2.2a16 16 0 0 0 6 6l2.2-2.2 3.4.7a2 2 0 0 1 1.8 2.1z",
	"github":    "M9 19c-5 1.5-5-2.5-7-3m14 6v-3.9a3.4 3.4 0 0 0-.9-2.6c3.1-.3 6.4-1.5 6.4-7A5.4 5.4 0 0 0 20 4.8 5 5 0 0 0 19.9 1S18.7.6 16 2.5a13.4 13.4 0 0 0-7 0C6.3.6 5.1 1 5.1 1A5 5 0 0 0 5 4.8a5.4 5.4 0 0 0-1.5 3.7c0 5.4 3.3 6.6 6.4 7a3.4 3.4 0 0 0-.9 2.6V22",
	"twitter":   "M4 4l16 16M20 4L4 20",
	"instagram": "M7 2h10a5 5 0 0 1 5 5v10a5 5 0 0 1-5 5H7a5 5 0 0 1-5-5V7a5 5 0 0 1 5-5zM16 11.4A4 4 0 1 1 12.6 8 4 4 0 0 1 16 11.4z",
	"linkedin":  "M16 8a6 6 0 0 1 6 6v7h-4v-7a2 2 0 0 0-4 0v7h-4v-7a6 6 0 0 1 6-6zM2 9h4v12H2zM4 2a2 2 0 1 0 0 4 2 2 0 0 0 0-4z",
	"youtube":   "M22.5 6.4a2.8 2.8 0 0 0-1.9-2C18.9 4 12 4 12 4s-6.9 0-8.6.5a2.8 2.8 0 0 0-1.9 2A29 29 0 0 0 1 12a29 29 0 0 0 .5 5.6 2.8 2.8 0 0 0 1.9 2c1.7.4 8.6.4 8.6.4s6.9 0 8.6-.5a2.8 2.8 0 0 0 1.9-2A29 29 0 0 0 23 12a29 29 0 0 0-.5-5.6zM9.8 15.5V8.5l5.7 3.5z",
	"tiktok":    "M9 12a4 4 0 1 0 4 4V2h3a5 5 0 0 0 5 5",
	"discord":   "M8 12h.01M16 12h.01M7 17c-2 0-4-1-5-2 0-5 2-9 4-11l3 1h6l3-1c2 2 4 6 4 11-1 1-3 2-5 2l-1-2",
	"twitch":    "M21 2H3v16h5v4l4-4h5l4-4V2zM11 11V7M16 11V7",
	"music":     "M9 18V5l12-2v13M9 18a3 3 0 1 1-6 0 3 3 0 0 1 6 0zM21 16a3 3 0 1 1-6 0 3 3 0 0 1 6 0z",
	"video":     "M23 7l-7 5 7 5V7zM1 5h15v14H1z",
	"shop":      "M6 2L3 6v14a2 2 0 0 0 2 2h14a2 2 0 0 0 2-2V6l-3-4zM3 6h18M16 10a4 4 0 0 1-8 0",
	"calendar":  "M3 4h18v18H3zM16 2v4M8 2v4M3 10h18",
	"document":  "M14 2H6a2 2 0 0 0-2 2v16a2 2 0 0 0 2 2h12a2 2 0 0 0 2-2V8zM14 2v6h6M16 13H8M16 17H8",
	"heart":     "M20.8 4.6a5.5 5.5 0 0 0-7.8 0L12 5.7l-1-1.1a5.5 5.5 0 0 0-7.8 7.8l1 1.1L12 21l7.8-7.8 1-1a5.5 5.5 0 0 0 0-7.8z",
	"star":      "M12 2l3.1 6.3 6.9 1-5 4.9 1.2 6.8L12 17.8 5.8 21l1.2-6.8-5-4.9 6.9-1z",
	"code":      "M16 18l6-6-6-6M8 6l-6 6 6 6",
}

// icon returns an inline SVG for a link icon. Unknown names get the
// generic link icon.
func icon(name string) template.HTML {
	name = config.ResolveIcon(name)
	return template.HTML(fmt.Sprintf(
		`<svg class="icon icon-%s" viewBox="0 0 24 24" width="20" height="20" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true"><path d="%s"/></svg>`,
		name, iconPaths[name]))
}

// absURL combines a base URL and a path into an absolute URL.
func absURL(baseURL, path string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

// dict creates a map[string]any from alternating key-value pairs.
func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key at position %d is not a string", i)
		}
		m[key] = values[i+1]
	}
	return m, nil
}
