// Package config defines the link page configuration document and its
// built-in defaults.
package config

import "slices"

// Field limits enforced by the schema validator.
const (
	MaxLinks                = 20
	MaxNameLength           = 50
	MaxBioLength            = 160
	MaxLocationLength       = 50
	MaxLinkTitleLength      = 50
	MaxLinkDescLength       = 100
	MaxURLLength            = 2048
	MaxSEOTitleLength       = 60
	MaxSEODescriptionLength = 160
)

// Config is the top-level configuration for a link page. A Config handed to
// the presentation layer is always total: every section is populated.
type Config struct {
	Profile     Profile     `json:"profile"     yaml:"profile"`
	Links       []Link      `json:"links"       yaml:"links"`
	SocialMedia SocialMedia `json:"socialMedia" yaml:"socialMedia"`
	Theme       Theme       `json:"theme"       yaml:"theme"`
	Layout      Layout      `json:"layout"      yaml:"layout"`
	SEO         SEO         `json:"seo"         yaml:"seo"`
	Analytics   Analytics   `json:"analytics"   yaml:"analytics"`
	Advanced    Advanced    `json:"advanced"    yaml:"advanced"`
}

// Profile holds the identity shown at the top of the page.
type Profile struct {
	Name     string `json:"name"     yaml:"name"`
	Bio      string `json:"bio"      yaml:"bio"`
	Avatar   string `json:"avatar"   yaml:"avatar"`
	Location string `json:"location" yaml:"location"`
}

// Link is a single outbound link button. Disabled links stay in the
// document but are not rendered.
type Link struct {
	Title       string `json:"title"       yaml:"title"`
	URL         string `json:"url"         yaml:"url"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon"        yaml:"icon"`
	Enabled     bool   `json:"enabled"     yaml:"enabled"`
	NewTab      bool   `json:"newTab"      yaml:"newTab"`
	Featured    bool   `json:"featured"    yaml:"featured"`
}

// SocialMedia maps a platform key to a username. Empty usernames are not
// shown.
type SocialMedia map[string]string

// Theme controls colors, fonts and button appearance.
type Theme struct {
	ColorScheme     string `json:"colorScheme"     yaml:"colorScheme"`
	PrimaryColor    string `json:"primaryColor"    yaml:"primaryColor"`
	BackgroundStyle string `json:"backgroundStyle" yaml:"backgroundStyle"`
	BackgroundImage string `json:"backgroundImage" yaml:"backgroundImage"`
	FontFamily      string `json:"fontFamily"      yaml:"fontFamily"`
	ButtonStyle     string `json:"buttonStyle"     yaml:"buttonStyle"`
	ButtonAnimation string `json:"buttonAnimation" yaml:"buttonAnimation"`
	ShowBorder      bool   `json:"showBorder"      yaml:"showBorder"`
}

// Layout controls page geometry and section ordering.
type Layout struct {
	MaxWidth            string `json:"maxWidth"            yaml:"maxWidth"`
	Alignment           string `json:"alignment"           yaml:"alignment"`
	Spacing             string `json:"spacing"             yaml:"spacing"`
	ShowProfileFirst    bool   `json:"showProfileFirst"    yaml:"showProfileFirst"`
	ShowSocialMedia     bool   `json:"showSocialMedia"     yaml:"showSocialMedia"`
	SocialMediaPosition string `json:"socialMediaPosition" yaml:"socialMediaPosition"`
}

// SEO holds document metadata. Length limits are advisory.
type SEO struct {
	Title       string `json:"title"       yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Keywords    string `json:"keywords"    yaml:"keywords"`
	Favicon     string `json:"favicon"     yaml:"favicon"`
}

// Analytics holds tracker identifiers and click-tracking switches.
type Analytics struct {
	GoogleAnalyticsID string `json:"googleAnalyticsId" yaml:"googleAnalyticsId"`
	FacebookPixelID   string `json:"facebookPixelId"   yaml:"facebookPixelId"`
	TrackClicks       bool   `json:"trackClicks"       yaml:"trackClicks"`
	TrackSocialClicks bool   `json:"trackSocialClicks" yaml:"trackSocialClicks"`
}

// Advanced holds feature flags.
type Advanced struct {
	EnablePWA        bool `json:"enablePWA"        yaml:"enablePWA"`
	EnableDarkMode   bool `json:"enableDarkMode"   yaml:"enableDarkMode"`
	EnableAnimations bool `json:"enableAnimations" yaml:"enableAnimations"`
	PreloadImages    bool `json:"preloadImages"    yaml:"preloadImages"`
}

// DefaultLink returns the values a link takes for every field its document
// leaves out.
func DefaultLink() Link {
	return Link{
		Icon:    DefaultIcon,
		Enabled: true,
		NewTab:  true,
	}
}

// Default returns the built-in configuration. It is complete, passes schema
// validation, and contains no characters the sanitizer would escape.
func Default() *Config {
	social := make(SocialMedia, len(Platforms))
	for _, p := range Platforms {
		social[p.Key] = ""
	}
	social["github"] = "octocat"

	return &Config{
		Profile: Profile{
			Name:   "Your Name",
			Bio:    "Welcome to my corner of the internet. Here are my favorite links.",
			Avatar: "https://avatars.githubusercontent.com/u/583231.png",
		},
		Links: []Link{
			{
				Title:       "My Website",
				URL:         "https://example.com",
				Description: "Personal homepage and blog",
				Icon:        "globe",
				Enabled:     true,
				NewTab:      true,
				Featured:    true,
			},
			{
				Title:   "GitHub",
				URL:     "https://github.com/octocat",
				Icon:    "github",
				Enabled: true,
				NewTab:  true,
			},
			{
				Title:   "Say Hello",
				URL:     "mailto:hello@example.com",
				Icon:    "mail",
				Enabled: true,
				NewTab:  false,
			},
		},
		SocialMedia: social,
		Theme: Theme{
			ColorScheme:     SchemeAuto,
			PrimaryColor:    "#6366f1",
			BackgroundStyle: BackgroundGradient,
			FontFamily:      "inter",
			ButtonStyle:     "rounded",
			ButtonAnimation: "lift",
			ShowBorder:      true,
		},
		Layout: Layout{
			MaxWidth:            "md",
			Alignment:           "center",
			Spacing:             "normal",
			ShowProfileFirst:    true,
			ShowSocialMedia:     true,
			SocialMediaPosition: "bottom",
		},
		SEO: SEO{
			Title:       "Your Name - Links",
			Description: "All of my links in one place.",
			Keywords:    "links, profile, social",
		},
		Analytics: Analytics{},
		Advanced: Advanced{
			EnableDarkMode:   true,
			EnableAnimations: true,
			PreloadImages:    true,
		},
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Links = slices.Clone(c.Links)
	if c.SocialMedia != nil {
		out.SocialMedia = make(SocialMedia, len(c.SocialMedia))
		for k, v := range c.SocialMedia {
			out.SocialMedia[k] = v
		}
	}
	return &out
}

// EnabledLinks returns the links that should be rendered, in document order.
func (c *Config) EnabledLinks() []Link {
	var out []Link
	for _, l := range c.Links {
		if l.Enabled {
			out = append(out, l)
		}
	}
	return out
}
