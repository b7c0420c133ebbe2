package theme

import (
	"maps"
	"slices"
	"strings"
	"sync"
)

// Descriptor records style and metadata side effects in memory. It
// implements StyleSink and MetadataSink and is safe for concurrent use.
type Descriptor struct {
	mu        sync.RWMutex
	variables map[string]string
	dark      bool
	title     string
	meta      map[string]string
	favicon   string
}

// NewDescriptor returns an empty Descriptor.
func NewDescriptor() *Descriptor {
	return &Descriptor{
		variables: make(map[string]string),
		meta:      make(map[string]string),
	}
}

func (d *Descriptor) SetVariable(name, value string) {
	d.mu.Lock()
	d.variables[name] = value
	d.mu.Unlock()
}

func (d *Descriptor) RemoveVariable(name string) {
	d.mu.Lock()
	delete(d.variables, name)
	d.mu.Unlock()
}

func (d *Descriptor) SetDarkMode(dark bool) {
	d.mu.Lock()
	d.dark = dark
	d.mu.Unlock()
}

func (d *Descriptor) SetTitle(title string) {
	d.mu.Lock()
	d.title = title
	d.mu.Unlock()
}

func (d *Descriptor) SetMeta(name, content string) {
	d.mu.Lock()
	d.meta[name] = content
	d.mu.Unlock()
}

func (d *Descriptor) SetFavicon(href string) {
	d.mu.Lock()
	d.favicon = href
	d.mu.Unlock()
}

// Snapshot is an immutable copy of a Descriptor's state.
type Snapshot struct {
	Variables map[string]string
	Dark      bool
	Title     string
	Meta      map[string]string
	Favicon   string
}

// Snapshot copies the current state.
func (d *Descriptor) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Snapshot{
		Variables: maps.Clone(d.variables),
		Dark:      d.dark,
		Title:     d.title,
		Meta:      maps.Clone(d.meta),
		Favicon:   d.favicon,
	}
}

// Variable returns a single custom property.
func (s Snapshot) Variable(name string) (string, bool) {
	v, ok := s.Variables[name]
	return v, ok
}

// CSS renders the variables as a :root rule with properties sorted by name.
func (s Snapshot) CSS() string {
	var b strings.Builder
	b.WriteString(":root {\n")
	for _, name := range slices.Sorted(maps.Keys(s.Variables)) {
		b.WriteString("  ")
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s.Variables[name])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// ColorSchemeClass is the class the page root carries.
func (s Snapshot) ColorSchemeClass() string {
	if s.Dark {
		return "dark"
	}
	return "light"
}
