// Package seo generates the search and social metadata for a link page:
// Open Graph and Twitter card tags, schema.org ProfilePage markup,
// robots.txt and the sitemap.
package seo

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"
)

// SitemapEntry represents a page in the sitemap.
type SitemapEntry struct {
	URL     string
	Lastmod time.Time
}

// PageMeta holds metadata needed for SEO tag generation.
//
// Title, Description, SiteName and Name come from the sanitized
// configuration and are already entity-escaped; they are written verbatim.
// URL, Image and SameAs are validated URLs and are escaped here.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical URL, empty when no base URL is configured
	SiteName    string
	Name        string // profile name
	Image       string // avatar
	Language    string
	SameAs      []string // social profile URLs
}

// sitemapURLSet is the root element of a sitemap XML document.
type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapURL represents a single URL entry in the sitemap.
type sitemapURL struct {
	Loc     string `xml:"loc"`
	Lastmod string `xml:"lastmod,omitempty"`
}

// GenerateSitemap produces an XML sitemap per the sitemaps.org protocol.
// It includes the XML declaration, a <urlset> root with the sitemaps.org xmlns,
// and each entry as a <url> with <loc> and optional <lastmod> (date only, YYYY-MM-DD).
// The <lastmod> element is only included when the time is non-zero.
func GenerateSitemap(entries []SitemapEntry) ([]byte, error) {
	urlset := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(entries)),
	}

	for _, e := range entries {
		u := sitemapURL{Loc: e.URL}
		if !e.Lastmod.IsZero() {
			u.Lastmod = e.Lastmod.Format("2006-01-02")
		}
		urlset.URLs = append(urlset.URLs, u)
	}

	output, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("seo: marshaling sitemap: %w", err)
	}

	result := []byte(xml.Header)
	result = append(result, output...)
	result = append(result, '\n')
	return result, nil
}

// GenerateRobotsTxt produces a robots.txt that allows all crawlers. The
// Sitemap line is only written when sitemapURL is set, since it must be
// absolute.
func GenerateRobotsTxt(sitemapURL string) []byte {
	out := []byte("User-agent: *\nAllow: /\n")
	if sitemapURL != "" {
		out = fmt.Appendf(out, "\nSitemap: %s\n", sitemapURL)
	}
	return out
}

// OpenGraphMeta generates the Open Graph tags for a profile page as a
// string of <meta> tags separated by newlines. og:url, og:image and
// og:locale are omitted when empty.
func OpenGraphMeta(meta PageMeta) string {
	var tags []string

	tags = append(tags, ogTag("og:title", meta.Title))
	tags = append(tags, ogTag("og:description", meta.Description))
	tags = append(tags, ogTag("og:type", "profile"))
	if meta.SiteName != "" {
		tags = append(tags, ogTag("og:site_name", meta.SiteName))
	}
	if meta.URL != "" {
		tags = append(tags, ogTag("og:url", html.EscapeString(meta.URL)))
	}
	if meta.Image != "" {
		tags = append(tags, ogTag("og:image", html.EscapeString(meta.Image)))
	}
	if meta.Language != "" {
		tags = append(tags, ogTag("og:locale", html.EscapeString(meta.Language)))
	}

	return strings.Join(tags, "\n")
}

func ogTag(property, content string) string {
	return fmt.Sprintf(`<meta property="%s" content="%s">`, property, content)
}

// TwitterCardMeta generates Twitter card meta tags. Profile pages use the
// "summary" card with the avatar as its image.
func TwitterCardMeta(meta PageMeta) string {
	var tags []string

	tags = append(tags, twitterTag("twitter:card", "summary"))
	tags = append(tags, twitterTag("twitter:title", meta.Title))
	tags = append(tags, twitterTag("twitter:description", meta.Description))

	if meta.Image != "" {
		tags = append(tags, twitterTag("twitter:image", html.EscapeString(meta.Image)))
	}

	return strings.Join(tags, "\n")
}

func twitterTag(name, content string) string {
	return fmt.Sprintf(`<meta name="%s" content="%s">`, name, content)
}

// jsonLDProfile is the structure for schema.org ProfilePage JSON-LD.
type jsonLDProfile struct {
	Context    string       `json:"@context"`
	Type       string       `json:"@type"`
	URL        string       `json:"url,omitempty"`
	MainEntity jsonLDPerson `json:"mainEntity"`
}

// jsonLDPerson represents a schema.org Person.
type jsonLDPerson struct {
	Type        string   `json:"@type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Image       string   `json:"image,omitempty"`
	SameAs      []string `json:"sameAs,omitempty"`
}

// JSONLDProfile generates a <script type="application/ld+json"> block with
// schema.org ProfilePage markup describing the page owner.
//
// Script content is not entity-decoded by browsers, so the escaped text
// fields are unescaped before encoding. encoding/json escapes <, > and &
// itself, which keeps the block from closing the script element early.
func JSONLDProfile(meta PageMeta) string {
	profile := jsonLDProfile{
		Context: "https://schema.org",
		Type:    "ProfilePage",
		URL:     meta.URL,
		MainEntity: jsonLDPerson{
			Type:        "Person",
			Name:        html.UnescapeString(meta.Name),
			Description: html.UnescapeString(meta.Description),
			Image:       meta.Image,
			SameAs:      meta.SameAs,
		},
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return ""
	}

	return fmt.Sprintf(`<script type="application/ld+json">%s</script>`, string(data))
}

// CanonicalURL joins a base URL and a path into the page's absolute URL.
// It returns "" when baseURL is empty.
func CanonicalURL(baseURL, path string) string {
	if baseURL == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
