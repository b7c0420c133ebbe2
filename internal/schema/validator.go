package schema

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/validate"
)

// Validate checks every rule of the schema against c and returns all
// errors and warnings. It never stops early and never modifies c.
func Validate(c *config.Config) Result {
	v := &collector{}
	if c == nil {
		v.fail("", CodeRequired, "configuration is required")
		return v.result()
	}

	validateProfile(v, c.Profile)
	validateLinks(v, c.Links)
	validateSocialMedia(v, c.SocialMedia)
	validateTheme(v, c.Theme)
	validateLayout(v, c.Layout)
	validateSEO(v, c.SEO)
	validateAnalytics(v, c.Analytics)

	return v.result()
}

func validateProfile(v *collector, p config.Profile) {
	requiredText(v, "profile.name", p.Name, config.MaxNameLength)
	requiredText(v, "profile.bio", p.Bio, config.MaxBioLength)
	maxLength(v, "profile.location", p.Location, config.MaxLocationLength)

	switch {
	case p.Avatar == "":
		v.fail("profile.avatar", CodeRequired, "avatar is required")
	case !validate.ImageURL(p.Avatar):
		v.fail("profile.avatar", CodeFormat, "must be an http(s) image URL ending in jpg, jpeg, png, gif, webp or svg")
	}
}

func validateLinks(v *collector, links []config.Link) {
	if len(links) > config.MaxLinks {
		v.fail("links", CodeCount, "at most %d links are allowed, got %d", config.MaxLinks, len(links))
	}

	for i, l := range links {
		prefix := fmt.Sprintf("links.%d.", i)

		requiredText(v, prefix+"title", l.Title, config.MaxLinkTitleLength)
		maxLength(v, prefix+"description", l.Description, config.MaxLinkDescLength)

		switch {
		case l.URL == "":
			v.fail(prefix+"url", CodeRequired, "url is required")
		case len(l.URL) > config.MaxURLLength:
			v.fail(prefix+"url", CodeLength, "must be at most %d characters", config.MaxURLLength)
		case !validate.URL(l.URL):
			v.fail(prefix+"url", CodeFormat, "must be an http, https, mailto or tel URL")
		case !validate.IsSafeExternalURL(l.URL):
			v.fail(prefix+"url", CodeUnsafe, "must not point at localhost or a private network address")
		}

		if l.Icon != "" && !config.OneOf(l.Icon, config.Icons) {
			w := v.warn(prefix+"icon", CodeUnknown, "unknown icon %q, the generic icon is used", l.Icon)
			w.Suggestion = suggest(l.Icon, config.Icons)
		}
	}
}

func validateSocialMedia(v *collector, social config.SocialMedia) {
	keys := make([]string, 0, len(social))
	for k := range social {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, platform := range keys {
		field := "socialMedia." + platform
		username := social[platform]
		if _, known := config.LookupPlatform(platform); !known {
			w := v.warn(field, CodeUnknown, "unknown platform %q is not displayed", platform)
			w.Suggestion = suggest(platform, config.PlatformKeys())
			continue
		}
		if !validate.SocialMediaUsername(platform, username) {
			v.fail(field, CodeFormat, "%q is not a valid %s username", username, platform)
		}
	}
}

func validateTheme(v *collector, t config.Theme) {
	oneOf(v, "theme.colorScheme", t.ColorScheme, config.ColorSchemes)
	if !validate.HexColor(t.PrimaryColor) {
		v.fail("theme.primaryColor", CodeFormat, "must be a six digit hex color such as #1a2b3c, got %q", t.PrimaryColor)
	}
	oneOf(v, "theme.backgroundStyle", t.BackgroundStyle, config.BackgroundStyles)
	if t.BackgroundStyle == config.BackgroundImage && t.BackgroundImage == "" {
		v.fail("theme.backgroundStyle", CodeRequired, "backgroundStyle %q requires backgroundImage", config.BackgroundImage)
	}
	if t.BackgroundImage != "" && !validate.ImageURL(t.BackgroundImage) {
		v.fail("theme.backgroundImage", CodeFormat, "must be an http(s) image URL")
	}
	oneOf(v, "theme.fontFamily", t.FontFamily, config.FontFamilies)
	oneOf(v, "theme.buttonStyle", t.ButtonStyle, config.ButtonStyles)
	oneOf(v, "theme.buttonAnimation", t.ButtonAnimation, config.ButtonAnimations)
}

func validateLayout(v *collector, l config.Layout) {
	oneOf(v, "layout.maxWidth", l.MaxWidth, config.MaxWidths)
	oneOf(v, "layout.alignment", l.Alignment, config.Alignments)
	oneOf(v, "layout.spacing", l.Spacing, config.Spacings)
	oneOf(v, "layout.socialMediaPosition", l.SocialMediaPosition, config.SocialMediaPositions)
}

func validateSEO(v *collector, s config.SEO) {
	if n := utf8.RuneCountInString(s.Title); n > config.MaxSEOTitleLength {
		v.warn("seo.title", CodeAdvisory, "%d characters; search results usually truncate after %d", n, config.MaxSEOTitleLength)
	}
	if n := utf8.RuneCountInString(s.Description); n > config.MaxSEODescriptionLength {
		v.warn("seo.description", CodeAdvisory, "%d characters; search results usually truncate after %d", n, config.MaxSEODescriptionLength)
	}
	if s.Favicon != "" && !validate.ImageURL(s.Favicon) {
		v.fail("seo.favicon", CodeFormat, "must be an http(s) image URL")
	}
}

func validateAnalytics(v *collector, a config.Analytics) {
	if a.GoogleAnalyticsID != "" && !validate.GoogleAnalyticsID(a.GoogleAnalyticsID) {
		v.fail("analytics.googleAnalyticsId", CodeFormat, "must look like G-XXXXXXXXXX")
	}
	if a.FacebookPixelID != "" && !validate.FacebookPixelID(a.FacebookPixelID) {
		v.fail("analytics.facebookPixelId", CodeFormat, "must be 15 or 16 digits")
	}
}

func requiredText(v *collector, field, s string, limit int) {
	if strings.TrimSpace(s) == "" {
		v.fail(field, CodeRequired, "%s is required", lastSegment(field))
		return
	}
	maxLength(v, field, s, limit)
}

func maxLength(v *collector, field, s string, limit int) {
	if n := utf8.RuneCountInString(s); n > limit {
		v.fail(field, CodeLength, "must be at most %d characters, got %d", limit, n)
	}
}

func oneOf(v *collector, field, value string, allowed []string) {
	if config.OneOf(value, allowed) {
		return
	}
	is := v.fail(field, CodeEnum, "%q is not one of %s", value, strings.Join(allowed, ", "))
	is.Suggestion = suggest(value, allowed)
}

func lastSegment(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		return field[i+1:]
	}
	return field
}
