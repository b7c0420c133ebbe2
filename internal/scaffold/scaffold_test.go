package scaffold

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/loader"
	"github.com/aellingwood/linkforge/internal/settings"
)

// ---------------------------------------------------------------------------
// Init
// ---------------------------------------------------------------------------

func TestInit(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "my-links")

			created, err := Init(dir, format)
			if err != nil {
				t.Fatalf("Init: %v", err)
			}
			if created.Config != "linkforge."+format {
				t.Errorf("Config: got %q", created.Config)
			}
			if created.Settings != settings.DefaultFile {
				t.Errorf("Settings: got %q", created.Settings)
			}

			data, err := os.ReadFile(filepath.Join(dir, created.Config))
			if err != nil {
				t.Fatal(err)
			}
			doc, err := loader.Decode(data, "."+format)
			if err != nil {
				t.Fatalf("decoding generated config: %v", err)
			}
			got, err := config.FromDocument(doc)
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}
			if !reflect.DeepEqual(got, config.Default()) {
				t.Errorf("generated config should equal the defaults\ngot:  %+v\nwant: %+v", got, config.Default())
			}

			if info, err := os.Stat(filepath.Join(dir, created.Static)); err != nil || !info.IsDir() {
				t.Error("expected a static directory")
			}
		})
	}
}

func TestInit_SettingsPointAtConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, "yaml"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	s, err := settings.Load(filepath.Join(dir, settings.DefaultFile))
	if err != nil {
		t.Fatalf("settings.Load: %v", err)
	}
	if s.Source != "linkforge.yaml" {
		t.Errorf("Source: got %q", s.Source)
	}
}

func TestInit_AlreadyExists(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "linkforge.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Init(dir, "json")
	if err == nil {
		t.Fatal("expected an error when the config already exists")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("error should mention 'already exists', got: %v", err)
	}
}

func TestInit_KeepsExistingSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, settings.DefaultFile)
	if err := os.WriteFile(path, []byte("output: dist\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	created, err := Init(dir, "toml")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if created.Settings != "" {
		t.Errorf("an existing settings file should be kept, got %q", created.Settings)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "output: dist\n" {
		t.Errorf("settings were rewritten: %q", data)
	}
}

func TestInit_UnsupportedFormat(t *testing.T) {
	if _, err := Init(t.TempDir(), "xml"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestEncode_JSONDoesNotEscapeHTML(t *testing.T) {
	data, err := Encode(map[string]any{"title": "R&D <3"}, "json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"R&D <3"`) {
		t.Errorf("got %s", data)
	}
}
