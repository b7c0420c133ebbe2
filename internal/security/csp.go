// Package security provides Content Security Policy (CSP) generation and
// nonce-based authorization of the page's inline style and script.
package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/aellingwood/linkforge/internal/config"
)

// GenerateNonce produces a 16-byte cryptographically random nonce,
// returned as a base64-encoded string.
func GenerateNonce() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// CSPPolicy holds the directives for a Content-Security-Policy header.
type CSPPolicy struct {
	DefaultSrc  []string
	ScriptSrc   []string
	StyleSrc    []string
	ImgSrc      []string
	FontSrc     []string
	ConnectSrc  []string
	ManifestSrc []string
	BaseURI     []string
	FormAction  []string
	FrameAnc    []string
}

// String serializes the policy to a CSP header value.
func (p *CSPPolicy) String() string {
	// Build directive strings, skipping empty directives.
	var directives []string
	add := func(name string, values []string) {
		if len(values) > 0 {
			directives = append(directives, name+" "+strings.Join(values, " "))
		}
	}
	add("default-src", p.DefaultSrc)
	add("script-src", p.ScriptSrc)
	add("style-src", p.StyleSrc)
	add("img-src", p.ImgSrc)
	add("font-src", p.FontSrc)
	add("connect-src", p.ConnectSrc)
	add("manifest-src", p.ManifestSrc)
	add("base-uri", p.BaseURI)
	add("form-action", p.FormAction)
	add("frame-ancestors", p.FrameAnc)
	return strings.Join(directives, "; ")
}

// PagePolicy returns the CSP for a generated link page. The nonce covers
// the inline theme stylesheet and the color scheme script. Images are
// limited to the page itself, data: URIs, and the origins of the avatar,
// background image and favicon configured in c.
//
// The policy is delivered in a meta tag, where frame-ancestors is ignored,
// so it is left out.
func PagePolicy(nonce string, c *config.Config) *CSPPolicy {
	n := fmt.Sprintf("'nonce-%s'", nonce)
	p := &CSPPolicy{
		DefaultSrc:  []string{"'none'"},
		ScriptSrc:   []string{n},
		StyleSrc:    []string{"'self'", n},
		ImgSrc:      []string{"'self'", "data:"},
		FontSrc:     []string{"'self'"},
		ManifestSrc: []string{"'self'"},
		BaseURI:     []string{"'self'"},
		FormAction:  []string{"'none'"},
	}
	if c == nil {
		return p
	}
	images := []string{c.Profile.Avatar, c.SEO.Favicon}
	if c.Theme.BackgroundStyle == config.BackgroundImage {
		images = append(images, c.Theme.BackgroundImage)
	}
	for _, img := range images {
		if o := origin(img); o != "" && !slices.Contains(p.ImgSrc, o) {
			p.ImgSrc = append(p.ImgSrc, o)
		}
	}
	return p
}

// origin returns scheme://host for an absolute http(s) URL and "" for
// anything else, including relative paths already covered by 'self'.
func origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
