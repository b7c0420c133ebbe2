// Package build writes the static link page and its companion files from
// the configuration held in a loader.Store.
package build

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aellingwood/linkforge/internal/loader"
	"github.com/aellingwood/linkforge/internal/render"
	"github.com/aellingwood/linkforge/internal/seo"
	tmpl "github.com/aellingwood/linkforge/internal/template"
	"github.com/aellingwood/linkforge/internal/theme"
)

// Output file names.
const (
	PageFile    = "index.html"
	RobotsFile  = "robots.txt"
	SitemapFile = "sitemap.xml"
)

// BuildOptions controls the behaviour of the build.
type BuildOptions struct {
	OutputDir string
	BaseURL   string
	Lang      string
	// LayoutDir holds templates that replace the built-in ones.
	LayoutDir string
	// StaticDir is copied verbatim into the output, e.g. a local avatar.
	StaticDir   string
	PrefersDark bool
}

// BuildResult contains statistics about the completed build.
type BuildResult struct {
	FilesWritten int
	FilesCopied  int
	Files        []string // output names, sorted
	State        loader.State
	Errors       int
	Warnings     int
	Duration     time.Duration
	OutputSize   int64
}

// Builder renders the store's current configuration. Theme state follows
// the store through a bound theme.Applicator, so a Builder can be reused
// across reloads.
type Builder struct {
	store    *loader.Store
	options  BuildOptions
	log      *zap.Logger
	renderer *render.Renderer
	styles   *theme.Descriptor
	unbind   func()

	mu sync.Mutex
}

// NewBuilder creates a Builder for store. A nil log discards output.
func NewBuilder(store *loader.Store, opts BuildOptions, log *zap.Logger) (*Builder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("build: output directory is required")
	}

	engine, err := tmpl.NewEngine(opts.LayoutDir)
	if err != nil {
		return nil, fmt.Errorf("creating template engine: %w", err)
	}

	styles := theme.NewDescriptor()
	applicator := theme.NewApplicator(styles, styles, theme.Static(opts.PrefersDark))

	return &Builder{
		store:    store,
		options:  opts,
		log:      log,
		renderer: render.NewRenderer(engine, render.Options{BaseURL: opts.BaseURL, Lang: opts.Lang}),
		styles:   styles,
		unbind:   applicator.Bind(store),
	}, nil
}

// Close stops following the store.
func (b *Builder) Close() {
	b.unbind()
}

type artifact struct {
	name string
	data []byte
}

// Build cleans the output directory and writes the page, robots.txt, and,
// when configured, sitemap.xml and the web app manifest.
func (b *Builder) Build() (*BuildResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	res := b.store.Result()
	c := res.Config
	outputDir := b.options.OutputDir

	if err := CleanDir(outputDir); err != nil {
		return nil, fmt.Errorf("cleaning output directory: %w", err)
	}

	result := &BuildResult{
		State:    res.State,
		Errors:   len(res.Issues.Errors),
		Warnings: len(res.Issues.Warnings),
	}

	if dir := b.options.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			copied, err := CopyDir(dir, outputDir)
			if err != nil {
				return nil, fmt.Errorf("copying static files: %w", err)
			}
			result.FilesCopied = copied
		}
	}

	snap := b.styles.Snapshot()
	page, err := b.renderer.RenderPage(c, snap)
	if err != nil {
		return nil, err
	}
	artifacts := []artifact{{PageFile, page}}

	sitemapURL := ""
	if b.options.BaseURL != "" {
		sitemap, err := seo.GenerateSitemap([]seo.SitemapEntry{{
			URL:     seo.CanonicalURL(b.options.BaseURL, "/"),
			Lastmod: start.UTC(),
		}})
		if err != nil {
			return nil, fmt.Errorf("generating sitemap: %w", err)
		}
		artifacts = append(artifacts, artifact{SitemapFile, sitemap})
		sitemapURL = seo.CanonicalURL(b.options.BaseURL, SitemapFile)
	}
	artifacts = append(artifacts, artifact{RobotsFile, seo.GenerateRobotsTxt(sitemapURL)})

	if c.Advanced.EnablePWA {
		manifest, err := GenerateManifest(c, snap.Dark)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact{ManifestFile, manifest})
	}

	err = forEach(artifacts, runtime.NumCPU(), func(a artifact) error {
		return WriteFile(outputDir, a.name, a.data)
	})
	if err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	for _, a := range artifacts {
		result.Files = append(result.Files, filepath.ToSlash(a.name))
	}
	slices.Sort(result.Files)
	result.FilesWritten = len(artifacts)

	size, err := DirSize(outputDir)
	if err != nil {
		return nil, fmt.Errorf("calculating output size: %w", err)
	}
	result.OutputSize = size
	result.Duration = time.Since(start)

	if res.State == loader.Degraded {
		b.log.Warn("built with a degraded configuration",
			zap.String("source", res.Source),
			zap.Int("errors", result.Errors))
	}
	b.log.Info("build complete",
		zap.String("output", outputDir),
		zap.Int("files", result.FilesWritten),
		zap.Int("copied", result.FilesCopied),
		zap.Int64("bytes", result.OutputSize),
		zap.Duration("duration", result.Duration))

	return result, nil
}
