package config

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a link on top of DefaultLink, so a partial link
// object picks up the default icon and the enabled/newTab flags.
func (l *Link) UnmarshalJSON(data []byte) error {
	type plain Link
	p := plain(DefaultLink())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = Link(p)
	return nil
}

// ToDocument converts c into its generic document form: nested
// map[string]any, []any, string and bool values, as produced by decoding
// the JSON configuration.
func ToDocument(c *Config) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding config document: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a generic document into a Config. Fields missing
// from doc keep their zero value, except link fields, which fall back to
// DefaultLink. Callers merge doc onto the defaults first.
func FromDocument(doc map[string]any) (*Config, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding config document: %w", err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &c, nil
}

// DefaultDocument returns Default in document form.
func DefaultDocument() map[string]any {
	doc, err := ToDocument(Default())
	if err != nil {
		// Default is a fixed value of plain strings and bools.
		panic(err)
	}
	return doc
}
