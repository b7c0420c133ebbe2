package template

import "html/template"

// PageContext is the data passed to the page template as ".".
//
// Free text from the configuration arrives already entity-escaped and is
// carried as template.HTML so the template does not escape it again.
type PageContext struct {
	Lang        string
	Title       template.HTML
	Description template.HTML
	Keywords    template.HTML
	Favicon     string
	Canonical   string

	// Meta holds the Open Graph and Twitter card tags.
	Meta template.HTML
	// CSP is the Content-Security-Policy emitted as a meta tag.
	CSP   string
	Nonce string

	// ThemeCSS is the :root rule with the theme's custom properties.
	ThemeCSS template.CSS
	// SchemeClass is "light" or "dark"; AutoScheme asks the browser at load.
	SchemeClass string
	AutoScheme  bool
	BodyClasses string

	Profile      ProfileContext
	ProfileFirst bool
	Links        []LinkContext
	Social       []SocialContext
	SocialTop    bool
	SocialBottom bool

	Manifest bool
	Preload  []string
}

// ProfileContext is the identity block.
type ProfileContext struct {
	Name     template.HTML
	Bio      template.HTML
	Avatar   string
	Location template.HTML
}

// LinkContext is a rendered link button.
type LinkContext struct {
	Title       template.HTML
	Description template.HTML
	// URL has passed URL validation; tel: links would otherwise be
	// rejected by the template's URL filter.
	URL      template.URL
	Icon     string
	NewTab   bool
	Featured bool
}

// SocialContext is one social network badge.
type SocialContext struct {
	Key      string
	Name     string
	Username string
}
