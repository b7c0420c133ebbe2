package theme

import (
	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/loader"
)

// Applicator keeps a pair of sinks in step with a Store.
type Applicator struct {
	style StyleSink
	meta  MetadataSink
	pref  Preference
}

// NewApplicator returns an Applicator writing to style and meta.
func NewApplicator(style StyleSink, meta MetadataSink, pref Preference) *Applicator {
	return &Applicator{style: style, meta: meta, pref: pref}
}

// Apply derives everything from c.
func (a *Applicator) Apply(c *config.Config) {
	Apply(a.style, a.meta, c, a.pref)
}

// Bind applies the store's current configuration and re-derives the
// affected state on every change. The returned function stops following
// the store.
func (a *Applicator) Bind(s *loader.Store) (unbind func()) {
	unbind = s.Subscribe(a.onChange)
	a.Apply(s.Config())
	return unbind
}

func (a *Applicator) onChange(ch loader.Change) {
	c := ch.Config
	if ch.Touches("theme") || ch.Touches("advanced") {
		applyScheme(a.style, c, a.pref)
		ApplyThemeVariables(a.style, c.Theme)
	}
	if ch.Touches("layout") {
		ApplyLayoutVariables(a.style, c.Layout)
	}
	if ch.Touches("seo") {
		UpdateSEOMetadata(a.meta, c.SEO)
	}
}
