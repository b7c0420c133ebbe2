// Package sanitize neutralizes HTML-significant characters in the free-text
// fields of a configuration and filters untrusted fields out of candidate
// documents.
package sanitize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/aellingwood/linkforge/internal/config"
)

// escaper replaces & first so that existing text is escaped exactly once
// per call.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// Text trims s, normalizes it to NFC and entity-escapes &, <, >, ", ' and /.
// Text is not idempotent: escaping already escaped text escapes the
// ampersands again.
func Text(s string) string {
	s = strings.TrimSpace(norm.NFC.String(s))
	return escaper.Replace(s)
}

// Config returns a copy of c with every free-text field passed through
// Text. URLs, enumerations and flags are left alone; their safety comes
// from format validation. c is not modified.
func Config(c *config.Config) *config.Config {
	out := c.Clone()

	out.Profile.Name = Text(out.Profile.Name)
	out.Profile.Bio = Text(out.Profile.Bio)
	out.Profile.Location = Text(out.Profile.Location)

	for i := range out.Links {
		out.Links[i].Title = Text(out.Links[i].Title)
		out.Links[i].Description = Text(out.Links[i].Description)
	}

	out.SEO.Title = Text(out.SEO.Title)
	out.SEO.Description = Text(out.SEO.Description)
	out.SEO.Keywords = Text(out.SEO.Keywords)

	return out
}
