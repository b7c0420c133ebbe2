package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aellingwood/linkforge/internal/build"
	"github.com/aellingwood/linkforge/internal/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the link page",
	Long:  "Build resolves the page configuration and writes index.html and its companion files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, map[string]string{
			"destination":  "output",
			"baseURL":      "baseURL",
			"layouts":      "layouts",
			"static":       "static",
			"prefers-dark": "prefersDark",
		})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		e.open(ctx)

		b, err := e.newBuilder()
		if err != nil {
			return err
		}
		defer func() { b.Close() }()

		result, err := b.Build()
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		printResult(cmd.OutOrStdout(), result)

		if w, _ := cmd.Flags().GetBool("watch"); !w {
			return nil
		}
		return e.watch(ctx, cmd.OutOrStdout(), &b)
	},
}

func (e *env) newBuilder() (*build.Builder, error) {
	s := e.settings
	return build.NewBuilder(e.store, build.BuildOptions{
		OutputDir:   s.Output,
		BaseURL:     s.BaseURL,
		LayoutDir:   s.Layouts,
		StaticDir:   s.Static,
		PrefersDark: s.PrefersDark,
	}, e.log)
}

// watch rebuilds whenever the page configuration, layouts or static files
// change, until ctx is done. The builder is recreated on every change so
// edited layouts are parsed again.
func (e *env) watch(ctx context.Context, out io.Writer, b **build.Builder) error {
	s := e.settings
	paths := []string{s.Source, s.Layouts, s.Static}

	// Debounce timers may fire while a rebuild is still running.
	var mu sync.Mutex
	w := watch.NewWatcher(paths, watch.DefaultDebounce, e.log, func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		e.store.Reload(ctx)
		next, err := e.newBuilder()
		if err != nil {
			e.log.Error("rebuild failed", zap.Error(err))
			return
		}
		(*b).Close()
		*b = next

		result, err := next.Build()
		if err != nil {
			e.log.Error("rebuild failed", zap.Error(err))
			return
		}
		printResult(out, result)
	})

	errCh := make(chan error, 1)
	go func() { errCh <- w.Start() }()
	fmt.Fprintln(out, "Watching for changes. Press Ctrl+C to stop.")

	var err error
	select {
	case <-ctx.Done():
		w.Stop()
		err = <-errCh
	case err = <-errCh:
		if err != nil {
			err = fmt.Errorf("watcher: %w", err)
		}
	}
	mu.Lock()
	defer mu.Unlock()
	return err
}

func printResult(out io.Writer, r *build.BuildResult) {
	fmt.Fprintf(out, "Build complete: %d files in %s (%s", r.FilesWritten, r.Duration.Round(time.Millisecond), r.State)
	if r.Errors > 0 {
		fmt.Fprintf(out, ", %d errors repaired", r.Errors)
	}
	if r.Warnings > 0 {
		fmt.Fprintf(out, ", %d warnings", r.Warnings)
	}
	fmt.Fprintln(out, ")")
	for i, f := range r.Files {
		connector := "├── "
		if i == len(r.Files)-1 {
			connector = "└── "
		}
		fmt.Fprintln(out, connector+f)
	}
	if r.FilesCopied > 0 {
		fmt.Fprintf(out, "%d static files copied\n", r.FilesCopied)
	}
}

func init() {
	buildCmd.Flags().Bool("watch", false, "rebuild when the configuration, layouts or static files change")
	buildCmd.Flags().String("baseURL", "", "override base URL")
	buildCmd.Flags().StringP("destination", "d", "", "output directory")
	buildCmd.Flags().String("layouts", "", "directory of templates replacing the built-in ones")
	buildCmd.Flags().String("static", "", "directory copied into the output")
	buildCmd.Flags().Bool("prefers-dark", false, "render the auto color scheme dark")

	rootCmd.AddCommand(buildCmd)
}
