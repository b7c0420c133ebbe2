package main

import (
	"context"
	"maps"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aellingwood/linkforge/internal/loader"
	"github.com/aellingwood/linkforge/internal/logx"
	"github.com/aellingwood/linkforge/internal/settings"
)

var rootCmd = &cobra.Command{
	Use:           "linkforge",
	Short:         "Build a link page from a configuration file",
	Long:          "Linkforge validates, repairs and renders a link-in-bio page from a JSON, YAML or TOML configuration.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("settings", settings.DefaultFile, "path to the settings file")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error or off")
	rootCmd.PersistentFlags().String("source", "", "page configuration file (overrides settings)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// env is what every command needs: settings, a logger, and the store
// holding the resolved configuration.
type env struct {
	settings *settings.Settings
	log      *zap.Logger
	store    *loader.Store
}

// setup loads the settings, applies the flags the user actually set, and
// builds the logger. flagKeys maps command flags to settings keys.
func setup(cmd *cobra.Command, flagKeys map[string]string) (*env, error) {
	path, _ := cmd.Flags().GetString("settings")
	s, err := settings.Load(path)
	if err != nil {
		return nil, err
	}

	keys := map[string]string{"source": "source", "log-level": "logLevel"}
	maps.Copy(keys, flagKeys)

	overrides := make(map[string]any)
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		if f.Value.Type() == "bool" {
			v, _ := cmd.Flags().GetBool(flag)
			overrides[key] = v
			continue
		}
		overrides[key] = f.Value.String()
	}
	s = s.WithOverrides(overrides)
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &env{
		settings: s,
		log:      logx.New(s.LogLevel, cmd.ErrOrStderr()),
	}, nil
}

// open loads the page configuration from sources, or from the sources the
// settings name when none are given.
func (e *env) open(ctx context.Context, sources ...loader.Source) *loader.Store {
	if len(sources) == 0 {
		sources = e.settings.Sources()
	}
	l := loader.New(loader.WithSources(sources...), loader.WithLogger(e.log))
	e.store = loader.Open(ctx, l)
	return e.store
}
