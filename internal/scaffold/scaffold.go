// Package scaffold creates the files a new link page project starts from.
package scaffold

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/settings"
)

// Formats lists the configuration file formats Init can write.
var Formats = []string{"json", "yaml", "toml"}

// ConfigName is the base name of the page configuration file.
const ConfigName = "linkforge"

// Created lists the paths Init wrote, relative to its directory.
type Created struct {
	Config   string
	Settings string // empty when a settings file already existed
	Static   string
}

// Init writes a starter page configuration in format, a settings file
// pointing at it, and an empty static directory into dir, creating dir if
// needed. It refuses to overwrite an existing page configuration.
func Init(dir, format string) (*Created, error) {
	if !slices.Contains(Formats, format) {
		return nil, fmt.Errorf("unsupported format %q (want one of %v)", format, Formats)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %q: %w", dir, err)
	}

	created := &Created{Config: ConfigName + "." + format}
	configPath := filepath.Join(dir, created.Config)
	if _, err := os.Stat(configPath); err == nil {
		return nil, fmt.Errorf("%s already exists", configPath)
	}

	data, err := Encode(config.DefaultDocument(), format)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", configPath, err)
	}

	settingsPath := filepath.Join(dir, settings.DefaultFile)
	if _, err := os.Stat(settingsPath); errors.Is(err, fs.ErrNotExist) {
		s := settings.Default()
		s.Source = created.Config
		out, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("encoding settings: %w", err)
		}
		if err := os.WriteFile(settingsPath, out, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", settingsPath, err)
		}
		created.Settings = settings.DefaultFile
	}

	s := settings.Default()
	if err := os.MkdirAll(filepath.Join(dir, s.Static), 0o755); err != nil {
		return nil, fmt.Errorf("creating static directory: %w", err)
	}
	created.Static = s.Static

	return created, nil
}

// Encode writes doc in format. JSON output is indented with two spaces.
func Encode(doc map[string]any, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}
