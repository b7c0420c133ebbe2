package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Color schemes.
const (
	SchemeLight = "light"
	SchemeDark  = "dark"
	SchemeAuto  = "auto"
)

// Background styles.
const (
	BackgroundSolid    = "solid"
	BackgroundGradient = "gradient"
	BackgroundImage    = "image"
)

// DefaultIcon is the icon used for links with no icon or an unknown one.
const DefaultIcon = "link"

// Enumerated values accepted by each theme and layout field.
var (
	ColorSchemes         = []string{SchemeLight, SchemeDark, SchemeAuto}
	BackgroundStyles     = []string{BackgroundSolid, BackgroundGradient, BackgroundImage}
	FontFamilies         = []string{"inter", "roboto", "poppins", "montserrat", "system"}
	ButtonStyles         = []string{"rounded", "square", "pill"}
	ButtonAnimations     = []string{"none", "scale", "glow", "lift"}
	MaxWidths            = []string{"sm", "md", "lg", "xl", "full"}
	Alignments           = []string{"left", "center", "right"}
	Spacings             = []string{"compact", "normal", "relaxed"}
	SocialMediaPositions = []string{"top", "bottom", "both"}
)

// Icons is the closed set of symbolic link icons the page knows how to draw.
var Icons = []string{
	DefaultIcon, "globe", "mail", "phone", "github", "twitter", "instagram",
	"linkedin", "youtube", "tiktok", "discord", "twitch", "music", "video",
	"shop", "calendar", "document", "heart", "star", "code",
}

// OneOf reports whether v is one of the allowed values.
func OneOf(v string, allowed []string) bool {
	return slices.Contains(allowed, v)
}

// ResolveIcon returns name when it is a known icon and DefaultIcon otherwise.
func ResolveIcon(name string) string {
	if OneOf(name, Icons) {
		return name
	}
	return DefaultIcon
}

// fontStacks maps FontFamilies to CSS font-family values.
var fontStacks = map[string]string{
	"inter":      `"Inter", system-ui, -apple-system, "Segoe UI", sans-serif`,
	"roboto":     `"Roboto", "Helvetica Neue", Arial, sans-serif`,
	"poppins":    `"Poppins", system-ui, sans-serif`,
	"montserrat": `"Montserrat", system-ui, sans-serif`,
	"system":     `system-ui, -apple-system, "Segoe UI", Roboto, sans-serif`,
}

// FontStack returns the CSS font-family value for a font key, falling back
// to the system stack.
func FontStack(key string) string {
	if s, ok := fontStacks[key]; ok {
		return s
	}
	return fontStacks["system"]
}

// Platform describes a supported social network.
type Platform struct {
	Key      string
	Name     string
	Username *regexp.Regexp
	// ProfileURL is a format string taking the username.
	ProfileURL string
}

// URL returns the profile URL for username. A leading "@" is dropped.
func (p Platform) URL(username string) string {
	return fmt.Sprintf(p.ProfileURL, strings.TrimPrefix(username, "@"))
}

// Platforms lists the supported social networks in display order.
var Platforms = []Platform{
	{Key: "twitter", Name: "X (Twitter)", Username: regexp.MustCompile(`^@?[A-Za-z0-9_]{1,15}$`), ProfileURL: "https://x.com/%s"},
	{Key: "instagram", Name: "Instagram", Username: regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`), ProfileURL: "https://instagram.com/%s"},
	{Key: "github", Name: "GitHub", Username: regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`), ProfileURL: "https://github.com/%s"},
	{Key: "linkedin", Name: "LinkedIn", Username: regexp.MustCompile(`^[A-Za-z0-9-]{3,100}$`), ProfileURL: "https://linkedin.com/in/%s"},
	{Key: "youtube", Name: "YouTube", Username: regexp.MustCompile(`^@?[A-Za-z0-9_.-]{3,30}$`), ProfileURL: "https://youtube.com/@%s"},
	{Key: "tiktok", Name: "TikTok", Username: regexp.MustCompile(`^@?[A-Za-z0-9_.]{2,24}$`), ProfileURL: "https://tiktok.com/@%s"},
	{Key: "discord", Name: "Discord", Username: regexp.MustCompile(`^[a-z0-9_.]{2,32}$`), ProfileURL: "https://discord.com/users/%s"},
	{Key: "twitch", Name: "Twitch", Username: regexp.MustCompile(`^[A-Za-z0-9_]{4,25}$`), ProfileURL: "https://twitch.tv/%s"},
	{Key: "facebook", Name: "Facebook", Username: regexp.MustCompile(`^[A-Za-z0-9.]{5,50}$`), ProfileURL: "https://facebook.com/%s"},
	{Key: "reddit", Name: "Reddit", Username: regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`), ProfileURL: "https://reddit.com/user/%s"},
	{Key: "telegram", Name: "Telegram", Username: regexp.MustCompile(`^[A-Za-z0-9_]{5,32}$`), ProfileURL: "https://t.me/%s"},
}

// LookupPlatform returns the platform registered under key.
func LookupPlatform(key string) (Platform, bool) {
	for _, p := range Platforms {
		if p.Key == key {
			return p, true
		}
	}
	return Platform{}, false
}

// PlatformKeys returns the keys of all supported platforms.
func PlatformKeys() []string {
	keys := make([]string, len(Platforms))
	for i, p := range Platforms {
		keys[i] = p.Key
	}
	return keys
}
