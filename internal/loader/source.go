package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrSourceUnavailable reports that a source has nothing to offer: the file
// does not exist, the variable is unset, the endpoint answered 404. The
// loader moves on to the next source.
var ErrSourceUnavailable = errors.New("config source unavailable")

// maxDocumentSize caps how much a source may read.
const maxDocumentSize = 1 << 20

// Source produces a candidate configuration document.
type Source interface {
	// Name identifies the source in logs and results.
	Name() string
	// Fetch returns the candidate document. Any error makes the loader fall
	// through to the next source.
	Fetch(ctx context.Context) (map[string]any, error)
}

// FileSource reads a JSON, YAML or TOML document from disk. The format is
// chosen by extension; anything unrecognized is parsed as JSON.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Fetch(_ context.Context) (map[string]any, error) {
	if s.Path == "" {
		return nil, ErrSourceUnavailable
	}
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrSourceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Path, err)
	}
	doc, err := Decode(data, filepath.Ext(s.Path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path, err)
	}
	return doc, nil
}

// HTTPSource fetches a JSON document with a GET request. Any status outside
// 2xx is a failure.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http:" + s.URL }

func (s HTTPSource) Fetch(ctx context.Context) (map[string]any, error) {
	if s.URL == "" {
		return nil, ErrSourceUnavailable
	}
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", s.URL, ErrSourceUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", s.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.URL, err)
	}
	doc, err := Decode(data, ".json")
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.URL, err)
	}
	return doc, nil
}

// EnvSource reads an inline JSON document from an environment variable.
// This is how a hosting platform injects its configuration.
type EnvSource struct {
	Var string
	// Lookup defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

func (s EnvSource) Name() string { return "env:" + s.Var }

func (s EnvSource) Fetch(_ context.Context) (map[string]any, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, ok := lookup(s.Var)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("%s: %w", s.Var, ErrSourceUnavailable)
	}
	doc, err := Decode([]byte(v), ".json")
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Var, err)
	}
	return doc, nil
}

// BytesSource serves a fixed in-memory document.
type BytesSource struct {
	Label  string
	Data   []byte
	Format string
}

func (s BytesSource) Name() string {
	if s.Label == "" {
		return "bytes"
	}
	return s.Label
}

func (s BytesSource) Fetch(_ context.Context) (map[string]any, error) {
	if len(bytes.TrimSpace(s.Data)) == 0 {
		return nil, ErrSourceUnavailable
	}
	return Decode(s.Data, s.Format)
}

// Decode parses data as the format named by ext (".json", ".yaml", ".yml"
// or ".toml") and returns it in the generic document form. The top level
// must be an object.
func Decode(data []byte, ext string) (map[string]any, error) {
	var parsed any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, err
		}
	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		parsed = m
	default:
		if err := json.Unmarshal(data, &parsed); err != nil {
			return nil, err
		}
	}
	return normalize(parsed)
}

// normalize rewrites a decoded YAML or TOML value into the exact shape
// encoding/json produces (map[string]any, []any, float64), so the rest of
// the pipeline sees one representation regardless of format.
func normalize(v any) (map[string]any, error) {
	if v == nil {
		return nil, errors.New("document is empty")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("normalizing document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("document must be an object: %w", err)
	}
	if doc == nil {
		return nil, errors.New("document must be an object")
	}
	return doc, nil
}
