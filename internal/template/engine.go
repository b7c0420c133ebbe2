package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"
)

//go:embed layouts
var builtin embed.FS

// PageTemplate is the entry point template for the link page.
const PageTemplate = "index.html"

// Engine wraps Go's html/template with the built-in layouts, custom
// functions and optional user overrides.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the built-in layouts and, when overrideDir is set,
// overlays any .html files found there. User layouts with the same relative
// path replace built-in ones. A missing overrideDir is ignored.
func NewEngine(overrideDir string) (*Engine, error) {
	layouts, err := fs.Sub(builtin, "layouts")
	if err != nil {
		return nil, fmt.Errorf("opening built-in layouts: %w", err)
	}
	files, err := collectTemplateFiles(layouts)
	if err != nil {
		return nil, fmt.Errorf("loading built-in layouts: %w", err)
	}

	if overrideDir != "" {
		userFiles, err := collectTemplateFiles(os.DirFS(overrideDir))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading user layouts from %s: %w", overrideDir, err)
		}
		maps.Copy(files, userFiles)
	}

	e := &Engine{}
	funcs := FuncMap()
	// partial looks templates up at execution time, so it can be bound
	// before parsing.
	funcs["partial"] = e.executePartial

	root := template.New("").Funcs(funcs)
	for name, content := range files {
		if _, err := root.New(name).Parse(content); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
	}
	e.templates = root
	return e, nil
}

// executePartial executes a partial template and returns the rendered HTML.
func (e *Engine) executePartial(name string, ctx any) (template.HTML, error) {
	tmplName := name
	if !strings.HasPrefix(name, "partials/") {
		tmplName = "partials/" + name
	}

	t := e.templates.Lookup(tmplName)
	if t == nil {
		t = e.templates.Lookup(name)
	}
	if t == nil {
		return "", fmt.Errorf("partial template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("executing partial %q: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// collectTemplateFiles returns the contents of every .html file in fsys,
// keyed by slash-separated relative path.
func collectTemplateFiles(fsys fs.FS) (map[string]string, error) {
	files := make(map[string]string)
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading template %s: %w", path, err)
		}
		files[path] = string(data)
		return nil
	})
	return files, err
}

// Execute renders the named template with ctx and returns the output bytes.
func (e *Engine) Execute(templateName string, ctx *PageContext) ([]byte, error) {
	t := e.templates.Lookup(templateName)
	if t == nil {
		return nil, fmt.Errorf("template %q not found", templateName)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, ctx); err != nil {
		return nil, fmt.Errorf("executing template %q: %w", templateName, err)
	}
	return buf.Bytes(), nil
}

// HasTemplate reports whether a template with the given name exists.
func (e *Engine) HasTemplate(name string) bool {
	return e.templates.Lookup(name) != nil
}
