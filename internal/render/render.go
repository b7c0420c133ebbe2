// Package render bridges the resolved configuration and template execution,
// converting a Config and the theme state derived from it into a template
// context and executing the page template.
package render

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/security"
	"github.com/aellingwood/linkforge/internal/seo"
	tmpl "github.com/aellingwood/linkforge/internal/template"
	"github.com/aellingwood/linkforge/internal/theme"
)

// DefaultLang is the document language when none is configured.
const DefaultLang = "en"

// Options holds the per-site values that are not part of the page
// configuration.
type Options struct {
	// BaseURL is the absolute URL the page is served from, without a
	// trailing slash. Canonical and og:url tags are omitted when empty.
	BaseURL string
	Lang    string
}

// Renderer orchestrates the rendering pipeline: it converts a Config into a
// template context and executes the page template to produce final HTML.
type Renderer struct {
	engine *tmpl.Engine
	opts   Options
	nonce  func() (string, error)
}

// NewRenderer creates a Renderer with the given template engine and options.
func NewRenderer(engine *tmpl.Engine, opts Options) *Renderer {
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}
	return &Renderer{
		engine: engine,
		opts:   opts,
		nonce:  security.GenerateNonce,
	}
}

// BuildPageContext converts c into a PageContext. Title, description,
// keywords, favicon, color scheme and custom properties are read from snap,
// the state the theme applicator derived from c.
//
// Text fields of c are sanitized and are passed through as template.HTML so
// they are escaped exactly once.
func (r *Renderer) BuildPageContext(c *config.Config, snap theme.Snapshot, nonce string) *tmpl.PageContext {
	title := snap.Title
	if title == "" {
		title = c.Profile.Name
	}

	ctx := &tmpl.PageContext{
		Lang:        r.opts.Lang,
		Title:       template.HTML(title),
		Description: template.HTML(snap.Meta["description"]),
		Keywords:    template.HTML(snap.Meta["keywords"]),
		Favicon:     snap.Favicon,
		Canonical:   seo.CanonicalURL(r.opts.BaseURL, "/"),
		CSP:         security.PagePolicy(nonce, c).String(),
		Nonce:       nonce,
		ThemeCSS:    template.CSS(styleSafe(snap.CSS())),
		SchemeClass: snap.ColorSchemeClass(),
		AutoScheme:  c.Advanced.EnableDarkMode && c.Theme.ColorScheme == config.SchemeAuto,
		BodyClasses: bodyClasses(c),
		Profile: tmpl.ProfileContext{
			Name:     template.HTML(c.Profile.Name),
			Bio:      template.HTML(c.Profile.Bio),
			Avatar:   c.Profile.Avatar,
			Location: template.HTML(c.Profile.Location),
		},
		ProfileFirst: c.Layout.ShowProfileFirst,
		Links:        links(c),
		Manifest:     c.Advanced.EnablePWA,
		Preload:      preload(c),
	}

	if c.Layout.ShowSocialMedia {
		ctx.Social = social(c)
	}
	if len(ctx.Social) > 0 {
		pos := c.Layout.SocialMediaPosition
		ctx.SocialTop = pos == "top" || pos == "both"
		ctx.SocialBottom = pos == "bottom" || pos == "both"
	}

	ctx.Meta = template.HTML(r.metaTags(c, title, snap.Meta["description"]))
	return ctx
}

// RenderPage builds the context for c with a fresh nonce and executes the
// page template.
func (r *Renderer) RenderPage(c *config.Config, snap theme.Snapshot) ([]byte, error) {
	nonce, err := r.nonce()
	if err != nil {
		return nil, err
	}

	output, err := r.engine.Execute(tmpl.PageTemplate, r.BuildPageContext(c, snap, nonce))
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return output, nil
}

func (r *Renderer) metaTags(c *config.Config, title, description string) string {
	meta := seo.PageMeta{
		Title:       title,
		Description: description,
		URL:         seo.CanonicalURL(r.opts.BaseURL, "/"),
		SiteName:    c.Profile.Name,
		Name:        c.Profile.Name,
		Image:       c.Profile.Avatar,
		Language:    r.opts.Lang,
		SameAs:      SocialURLs(c),
	}
	return strings.Join([]string{
		seo.OpenGraphMeta(meta),
		seo.TwitterCardMeta(meta),
		seo.JSONLDProfile(meta),
	}, "\n")
}

// SocialURLs returns the profile URLs of every configured social account in
// platform display order.
func SocialURLs(c *config.Config) []string {
	var out []string
	for _, s := range social(c) {
		p, _ := config.LookupPlatform(s.Key)
		out = append(out, p.URL(s.Username))
	}
	return out
}

func links(c *config.Config) []tmpl.LinkContext {
	enabled := c.EnabledLinks()
	out := make([]tmpl.LinkContext, 0, len(enabled))
	for _, l := range enabled {
		out = append(out, tmpl.LinkContext{
			Title:       template.HTML(l.Title),
			Description: template.HTML(l.Description),
			URL:         template.URL(l.URL),
			Icon:        config.ResolveIcon(l.Icon),
			NewTab:      l.NewTab,
			Featured:    l.Featured,
		})
	}
	return out
}

// social lists known platforms with a non-empty username. Unknown keys are
// ignored.
func social(c *config.Config) []tmpl.SocialContext {
	var out []tmpl.SocialContext
	for _, p := range config.Platforms {
		username := c.SocialMedia[p.Key]
		if username == "" {
			continue
		}
		out = append(out, tmpl.SocialContext{Key: p.Key, Name: p.Name, Username: username})
	}
	return out
}

func bodyClasses(c *config.Config) string {
	classes := []string{
		"btn-" + c.Theme.ButtonStyle,
		"anim-" + c.Theme.ButtonAnimation,
		"align-" + c.Layout.Alignment,
		"bg-" + c.Theme.BackgroundStyle,
	}
	if c.Advanced.EnableAnimations && c.Theme.ButtonAnimation != "none" {
		classes = append(classes, "animated")
	}
	if c.Theme.ShowBorder {
		classes = append(classes, "bordered")
	}
	return strings.Join(classes, " ")
}

func preload(c *config.Config) []string {
	if !c.Advanced.PreloadImages {
		return nil
	}
	var out []string
	if c.Profile.Avatar != "" {
		out = append(out, c.Profile.Avatar)
	}
	if c.Theme.BackgroundStyle == config.BackgroundImage && c.Theme.BackgroundImage != "" {
		out = append(out, c.Theme.BackgroundImage)
	}
	return out
}

// styleSafe keeps custom property values from closing the style element.
func styleSafe(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
