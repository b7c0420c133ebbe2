package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/loader"
)

// --- Writer utility tests ---

func TestWriteFile(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantPath string
	}{
		{"top level", "index.html", "index.html"},
		{"leading slash", "/robots.txt", "robots.txt"},
		{"nested", "icons/app.png", filepath.Join("icons", "app.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := WriteFile(dir, tt.file, []byte("data")); err != nil {
				t.Fatalf("WriteFile(%q) error: %v", tt.file, err)
			}
			got, err := os.ReadFile(filepath.Join(dir, tt.wantPath))
			if err != nil {
				t.Fatalf("reading written file: %v", err)
			}
			if string(got) != "data" {
				t.Errorf("file content = %q", got)
			}
		})
	}
}

func TestWriteFile_RejectsEscapes(t *testing.T) {
	for _, name := range []string{"", "/", "../outside.txt", "a/../../b"} {
		if err := WriteFile(t.TempDir(), name, nil); err == nil {
			t.Errorf("WriteFile(%q) should fail", name)
		}
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.txt")
	dst := filepath.Join(dir, "sub", "dest.txt")

	if err := os.WriteFile(src, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile error: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello world" {
		t.Errorf("copied content = %q", got)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Error("expected an error for a missing source")
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	files := map[string]string{
		"avatar.png":      "png",
		"img/bg.jpg":      "jpg",
		"img/icons/a.svg": "svg",
	}
	for name, data := range files {
		path := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	n, err := CopyDir(src, dst)
	if err != nil {
		t.Fatalf("CopyDir error: %v", err)
	}
	if n != len(files) {
		t.Errorf("copied %d files, want %d", n, len(files))
	}
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(dst, filepath.FromSlash(name)))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestCopyDir_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CopyDir(file, t.TempDir()); err == nil {
		t.Error("expected an error when the source is a file")
	}
}

func TestCleanDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	if err := os.MkdirAll(filepath.Join(dir, "stale"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "old.html"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CleanDir(dir); err != nil {
		t.Fatalf("CleanDir error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected an empty directory, got %d entries", len(entries))
	}
}

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(dir, "sub/b", make([]byte, 5)); err != nil {
		t.Fatal(err)
	}

	size, err := DirSize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if size != 15 {
		t.Errorf("DirSize = %d, want 15", size)
	}

	size, err = DirSize(filepath.Join(dir, "missing"))
	if err != nil || size != 0 {
		t.Errorf("missing dir: got %d, %v", size, err)
	}
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

func openStore(t *testing.T, doc string) *loader.Store {
	t.Helper()
	l := loader.New(loader.WithSources(loader.BytesSource{Label: "test", Data: []byte(doc), Format: ".json"}))
	return loader.Open(context.Background(), l)
}

func newBuilder(t *testing.T, store *loader.Store, opts BuildOptions, log *zap.Logger) *Builder {
	t.Helper()
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(t.TempDir(), "public")
	}
	b, err := NewBuilder(store, opts, log)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	t.Cleanup(b.Close)
	return b
}

func readDoc(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

func TestNewBuilder_RequiresOutput(t *testing.T) {
	if _, err := NewBuilder(openStore(t, `{}`), BuildOptions{}, nil); err == nil {
		t.Error("expected an error without an output directory")
	}
}

func TestNewBuilder_BadLayoutDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("{{.Broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewBuilder(openStore(t, `{}`), BuildOptions{OutputDir: t.TempDir(), LayoutDir: dir}, nil)
	if err == nil {
		t.Error("expected a template parse error")
	}
}

func TestBuild_Defaults(t *testing.T) {
	b := newBuilder(t, openStore(t, `{}`), BuildOptions{}, nil)

	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.State != loader.Ready {
		t.Errorf("State: got %v", result.State)
	}
	want := []string{PageFile, RobotsFile}
	if strings.Join(result.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files: got %v, want %v", result.Files, want)
	}
	if result.OutputSize == 0 {
		t.Error("OutputSize should be non-zero")
	}

	doc := readDoc(t, filepath.Join(b.options.OutputDir, PageFile))
	if got := doc.Find("a.link").Length(); got != 3 {
		t.Errorf("links: got %d, want 3", got)
	}

	robots, err := os.ReadFile(filepath.Join(b.options.OutputDir, RobotsFile))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(robots), "Sitemap:") {
		t.Error("robots.txt should not reference a sitemap without a base URL")
	}
}

func TestBuild_BaseURLAndPWA(t *testing.T) {
	store := openStore(t, `{"advanced": {"enablePWA": true}}`)
	b := newBuilder(t, store, BuildOptions{BaseURL: "https://links.example.com"}, nil)

	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []string{PageFile, ManifestFile, RobotsFile, SitemapFile}
	if strings.Join(result.Files, ",") != strings.Join(want, ",") {
		t.Errorf("Files: got %v, want %v", result.Files, want)
	}

	robots, _ := os.ReadFile(filepath.Join(b.options.OutputDir, RobotsFile))
	if !strings.Contains(string(robots), "Sitemap: https://links.example.com/sitemap.xml") {
		t.Errorf("robots.txt: %s", robots)
	}
	sitemap, _ := os.ReadFile(filepath.Join(b.options.OutputDir, SitemapFile))
	if !strings.Contains(string(sitemap), "<loc>https://links.example.com/</loc>") {
		t.Errorf("sitemap.xml: %s", sitemap)
	}

	doc := readDoc(t, filepath.Join(b.options.OutputDir, PageFile))
	if href, _ := doc.Find(`link[rel="canonical"]`).Attr("href"); href != "https://links.example.com/" {
		t.Errorf("canonical: got %q", href)
	}
	if doc.Find(`link[rel="manifest"]`).Length() != 1 {
		t.Error("expected a manifest link")
	}
}

func TestBuild_CleansAndCopiesStatic(t *testing.T) {
	static := t.TempDir()
	if err := os.WriteFile(filepath.Join(static, "avatar.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "public")
	if err := WriteFile(out, "stale.html", []byte("old")); err != nil {
		t.Fatal(err)
	}

	b := newBuilder(t, openStore(t, `{}`), BuildOptions{OutputDir: out, StaticDir: static}, nil)
	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.FilesCopied != 1 {
		t.Errorf("FilesCopied: got %d", result.FilesCopied)
	}
	if _, err := os.Stat(filepath.Join(out, "avatar.png")); err != nil {
		t.Error("static file should be copied")
	}
	if _, err := os.Stat(filepath.Join(out, "stale.html")); !os.IsNotExist(err) {
		t.Error("stale output should be removed")
	}
}

func TestBuild_FollowsStoreUpdates(t *testing.T) {
	store := openStore(t, `{}`)
	b := newBuilder(t, store, BuildOptions{}, nil)

	store.Update(map[string]any{
		"seo":   map[string]any{"title": "Ada & Co"},
		"theme": map[string]any{"primaryColor": "#ff0000"},
	})

	if _, err := b.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(b.options.OutputDir, PageFile))
	if err != nil {
		t.Fatal(err)
	}
	page := string(raw)
	if !strings.Contains(page, "<title>Ada &amp; Co</title>") {
		t.Error("title should follow the update and be escaped once")
	}
	if !strings.Contains(page, "--primary-color: #ff0000;") {
		t.Error("theme variables should follow the update")
	}
}

func TestBuild_DegradedLogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	store := openStore(t, `{"links": [{"title": "x", "url": "javascript:alert(1)"}]}`)
	b := newBuilder(t, store, BuildOptions{}, zap.New(core))

	result, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.State != loader.Degraded || result.Errors == 0 {
		t.Errorf("got state %v with %d errors", result.State, result.Errors)
	}
	if logs.FilterMessage("built with a degraded configuration").Len() != 1 {
		t.Error("expected a degraded warning")
	}
	if logs.FilterMessage("build complete").Len() != 1 {
		t.Error("expected a completion log")
	}
}

// ---------------------------------------------------------------------------
// Manifest
// ---------------------------------------------------------------------------

func TestGenerateManifest(t *testing.T) {
	c := config.Default()
	c.Profile.Name = "Tom &amp; Jerry Entertainment"

	data, err := GenerateManifest(c, true)
	if err != nil {
		t.Fatalf("GenerateManifest: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if m["name"] != "Tom & Jerry Entertainment" {
		t.Errorf("name: got %v", m["name"])
	}
	if m["short_name"] != "Tom & Jerry " {
		t.Errorf("short_name: got %q", m["short_name"])
	}
	if m["theme_color"] != c.Theme.PrimaryColor {
		t.Errorf("theme_color: got %v", m["theme_color"])
	}
	if m["background_color"] != darkBackground {
		t.Errorf("background_color: got %v", m["background_color"])
	}
	icons, _ := m["icons"].([]any)
	if len(icons) != 1 {
		t.Fatalf("icons: got %v", m["icons"])
	}
	if icons[0].(map[string]any)["src"] != c.Profile.Avatar {
		t.Errorf("icon should fall back to the avatar, got %v", icons[0])
	}
}

func TestGenerateManifest_FaviconIcon(t *testing.T) {
	c := config.Default()
	c.SEO.Favicon = "https://example.com/icon.png"
	c.Profile.Avatar = ""

	data, err := GenerateManifest(c, false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"src": "https://example.com/icon.png"`) {
		t.Errorf("manifest: %s", data)
	}
	if !strings.Contains(string(data), lightBackground) {
		t.Error("expected the light background")
	}
}
