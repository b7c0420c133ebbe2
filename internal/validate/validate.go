// Package validate provides the format predicates used by the schema
// validator: URL safety, image URLs, colors, tracker IDs and social
// usernames. Every function is total and free of side effects.
package validate

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/aellingwood/linkforge/internal/config"
)

var (
	hexColorRe  = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	gaIDRe      = regexp.MustCompile(`^G-[A-Za-z0-9]{10}$`)
	pixelIDRe   = regexp.MustCompile(`^[0-9]{15,16}$`)
	imageExtRe  = regexp.MustCompile(`(?i)\.(jpe?g|png|gif|webp|svg)$`)
	allowedURLs = map[string]bool{
		"http":   true,
		"https":  true,
		"mailto": true,
		"tel":    true,
	}
)

// blockedSchemes are rejected as a prefix of the normalized raw string,
// even when the parsed scheme looks allowed.
var blockedSchemes = []string{"javascript:", "data:", "vbscript:", "file:", "ftp:"}

// URL reports whether s is an absolute http, https, mailto or tel URL that
// does not smuggle a dangerous scheme.
func URL(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	if containsBlockedScheme(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if !allowedURLs[scheme] {
		return false
	}
	switch scheme {
	case "http", "https":
		return u.Host != "" && u.Hostname() != ""
	default:
		return u.Opaque != "" || u.Path != ""
	}
}

// containsBlockedScheme lowercases s, drops whitespace and control
// characters (browsers ignore them inside schemes) and looks for a blocked
// scheme prefix.
func containsBlockedScheme(s string) bool {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r <= ' ' || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	normalized := b.String()
	for _, bad := range blockedSchemes {
		if strings.HasPrefix(normalized, bad) {
			return true
		}
	}
	return false
}

// ImageURL reports whether s is an http(s) URL whose path ends in a known
// image extension. A query string is allowed.
func ImageURL(s string) bool {
	if !URL(s) {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false
	}
	return imageExtRe.MatchString(path.Base(u.Path))
}

// HexColor reports whether s is a six-digit hex color such as "#1a2b3c".
func HexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// GoogleAnalyticsID reports whether s looks like a GA4 measurement ID.
func GoogleAnalyticsID(s string) bool {
	return gaIDRe.MatchString(s)
}

// FacebookPixelID reports whether s is a 15 or 16 digit pixel ID.
func FacebookPixelID(s string) bool {
	return pixelIDRe.MatchString(s)
}

// SocialMediaUsername reports whether username is acceptable for platform.
// An empty username is always valid, and unknown platforms are accepted.
func SocialMediaUsername(platform, username string) bool {
	if username == "" {
		return true
	}
	p, ok := config.LookupPlatform(platform)
	if !ok {
		return true
	}
	return p.Username.MatchString(username)
}
