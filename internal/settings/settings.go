// Package settings loads the options of the linkforge tool itself: where
// the page configuration comes from, where output goes, and how to log.
// The page configuration is handled by the loader package.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aellingwood/linkforge/internal/loader"
)

// EnvPrefix prefixes every environment variable that overrides a setting,
// e.g. LINKFORGE_OUTPUT.
const EnvPrefix = "LINKFORGE"

// DefaultFile is the settings file looked up when none is given.
const DefaultFile = ".linkforge.yaml"

// Settings holds the tool options.
type Settings struct {
	// PlatformEnv names the environment variable a hosting platform uses to
	// inject a configuration document.
	PlatformEnv string `mapstructure:"platformEnv" yaml:"platformEnv"`
	// PlatformURL is fetched when the platform serves its document over HTTP.
	PlatformURL string `mapstructure:"platformURL" yaml:"platformURL"`
	// Source is the user's page configuration file.
	Source      string `mapstructure:"source"      yaml:"source"`
	Output      string `mapstructure:"output"      yaml:"output"`
	// Layouts holds templates replacing the built-in ones; Static is copied
	// into the output. Both are optional.
	Layouts     string `mapstructure:"layouts"     yaml:"layouts"`
	Static      string `mapstructure:"static"      yaml:"static"`
	BaseURL     string `mapstructure:"baseURL"     yaml:"baseURL"`
	PrefersDark bool   `mapstructure:"prefersDark" yaml:"prefersDark"`
	LogLevel    string `mapstructure:"logLevel"    yaml:"logLevel"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		PlatformEnv: "LINKFORGE_PLATFORM_CONFIG",
		Source:      "linkforge.json",
		Output:      "public",
		Layouts:     "layouts",
		Static:      "static",
		LogLevel:    "info",
	}
}

// Load reads settings from path (YAML, TOML or JSON), then from a .env file
// next to it, then from LINKFORGE_* environment variables. A missing file is
// not an error; the defaults and environment still apply.
func Load(path string) (*Settings, error) {
	s := Default()

	if err := LoadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// AutomaticEnv only consults keys viper already knows about.
	v.SetDefault("platformEnv", s.PlatformEnv)
	v.SetDefault("platformURL", s.PlatformURL)
	v.SetDefault("source", s.Source)
	v.SetDefault("output", s.Output)
	v.SetDefault("layouts", s.Layouts)
	v.SetDefault("static", s.Static)
	v.SetDefault("baseURL", s.BaseURL)
	v.SetDefault("prefersDark", s.PrefersDark)
	v.SetDefault("logLevel", s.LogLevel)

	if path != "" {
		switch strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".") {
		case "toml":
			v.SetConfigType("toml")
		case "json":
			v.SetConfigType("json")
		default:
			v.SetConfigType("yaml")
		}
		v.SetConfigFile(path)

		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("reading settings file: %w", err)
		}
	}

	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}
	return s, nil
}

// LoadDotEnv loads variables from a .env file without overriding ones that
// are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks the settings for common mistakes.
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Output) == "" {
		return errors.New("settings: output is required")
	}
	if s.BaseURL != "" && strings.HasSuffix(s.BaseURL, "/") {
		return fmt.Errorf("settings: baseURL must not have a trailing slash (got %q)", s.BaseURL)
	}
	return nil
}

// WithOverrides applies command line overrides. Known keys are mapped to
// their fields; the settings are returned for chaining.
func (s *Settings) WithOverrides(overrides map[string]any) *Settings {
	for key, val := range overrides {
		switch key {
		case "source":
			if str, ok := val.(string); ok && str != "" {
				s.Source = str
			}
		case "platformURL":
			if str, ok := val.(string); ok {
				s.PlatformURL = str
			}
		case "output":
			if str, ok := val.(string); ok && str != "" {
				s.Output = str
			}
		case "layouts":
			if str, ok := val.(string); ok {
				s.Layouts = str
			}
		case "static":
			if str, ok := val.(string); ok {
				s.Static = str
			}
		case "baseURL":
			if str, ok := val.(string); ok {
				s.BaseURL = strings.TrimSuffix(str, "/")
			}
		case "prefersDark":
			if b, ok := val.(bool); ok {
				s.PrefersDark = b
			}
		case "logLevel":
			if str, ok := val.(string); ok && str != "" {
				s.LogLevel = str
			}
		}
	}
	return s
}

// Sources returns the page configuration sources in priority order:
// platform injected document first, then the user's file.
func (s *Settings) Sources() []loader.Source {
	var out []loader.Source
	if s.PlatformEnv != "" {
		out = append(out, loader.EnvSource{Var: s.PlatformEnv})
	}
	if s.PlatformURL != "" {
		out = append(out, loader.HTTPSource{URL: s.PlatformURL})
	}
	if s.Source != "" {
		out = append(out, loader.FileSource{Path: s.Source})
	}
	return out
}
