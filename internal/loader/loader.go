// Package loader resolves the one authoritative configuration for a page.
//
// Sources are tried in priority order and the first that yields a document
// wins. The candidate is merged onto the built-in defaults, validated, and,
// when invalid, repaired field by field until only trusted values remain.
// The result is always complete, schema-valid and sanitized exactly once.
package loader

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/merge"
	"github.com/aellingwood/linkforge/internal/sanitize"
	"github.com/aellingwood/linkforge/internal/schema"
)

// State is the lifecycle position of a Loader.
type State int

const (
	Unloaded State = iota
	Loading
	Ready
	Degraded
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Degraded:
		return "degraded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// maxRepairPasses bounds how often an invalid candidate is pruned and
// revalidated before the loader gives up and uses the defaults.
const maxRepairPasses = 4

// DefaultsName is the Result.Source reported when no source produced a
// document.
const DefaultsName = "defaults"

// Result is the outcome of a load.
type Result struct {
	// Config is complete, schema-valid and sanitized.
	Config *config.Config
	State  State
	// Source names the source whose document was used.
	Source string
	// Issues holds what validation found in the candidate before repair.
	Issues schema.Result
	// Raw is the trusted candidate document before sanitizing. Updates merge
	// onto Raw so that text is never escaped twice.
	Raw map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithSources sets the sources in priority order, highest first.
func WithSources(sources ...Source) Option {
	return func(l *Loader) { l.sources = sources }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// WithDefaults replaces the built-in defaults. The document must describe a
// complete, valid configuration.
func WithDefaults(doc map[string]any) Option {
	return func(l *Loader) { l.defaults = doc }
}

// Loader runs the load pipeline.
type Loader struct {
	sources  []Source
	log      *zap.Logger
	defaults map[string]any

	mu    sync.Mutex
	state State
}

// New returns a Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{log: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	if l.defaults == nil {
		l.defaults = config.DefaultDocument()
	}
	return l
}

// State returns the state reached by the most recent Load.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

// Load fetches the highest priority available document and turns it into a
// final configuration. Load never fails: with no usable source, or on any
// unexpected failure, it returns the defaults.
func (l *Loader) Load(ctx context.Context) (res *Result) {
	l.setState(Loading)
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("config load panicked, using defaults", zap.Any("panic", r))
			res = l.fallback()
		}
		l.setState(res.State)
	}()

	candidate, name := l.fetch(ctx)
	res = l.Resolve(candidate)
	res.Source = name
	return res
}

// Resolve runs the merge, validate, repair and sanitize steps on an already
// fetched candidate. A nil candidate yields the defaults.
func (l *Loader) Resolve(candidate map[string]any) *Result {
	if candidate == nil {
		candidate = map[string]any{}
	}

	trusted := candidate
	var first schema.Result
	for pass := 0; pass <= maxRepairPasses; pass++ {
		cfg, issues, err := l.check(trusted)
		if pass == 0 {
			first = issues
		}
		if err != nil {
			l.log.Warn("config candidate could not be decoded", zap.Error(err))
			break
		}
		if issues.Valid {
			state := Ready
			if pass > 0 {
				state = Degraded
				l.logIssues(first)
			}
			return &Result{
				Config: sanitize.Config(cfg),
				State:  state,
				Source: DefaultsName,
				Issues: first,
				Raw:    merge.Clone(trusted),
			}
		}
		trusted = sanitize.Prune(trusted, issues.Errors)
	}

	l.logIssues(first)
	res := l.fallback()
	res.State = Degraded
	res.Issues = first
	return res
}

// check merges candidate onto the defaults and validates the result, first
// by shape and then by rule.
func (l *Loader) check(candidate map[string]any) (*config.Config, schema.Result, error) {
	merged := merge.Merge(l.defaults, candidate)

	shape := schema.CheckDocument(merged)
	if !shape.Valid {
		return nil, shape, nil
	}
	cfg, err := config.FromDocument(merged)
	if err != nil {
		return nil, shape, err
	}
	return cfg, shape.Merge(schema.Validate(cfg)), nil
}

// fetch tries each source in order and returns the first document.
func (l *Loader) fetch(ctx context.Context) (map[string]any, string) {
	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			l.log.Debug("config load cancelled", zap.Error(err))
			break
		}
		doc, err := src.Fetch(ctx)
		if err != nil {
			l.log.Debug("config source skipped", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		l.log.Debug("config source used", zap.String("source", src.Name()))
		return doc, src.Name()
	}
	return nil, DefaultsName
}

// fallback returns the defaults untouched.
func (l *Loader) fallback() *Result {
	cfg := config.Default()
	raw := map[string]any{}
	if l.defaults != nil {
		if c, err := config.FromDocument(l.defaults); err == nil {
			cfg = c
		}
	}
	return &Result{
		Config: sanitize.Config(cfg),
		State:  Ready,
		Source: DefaultsName,
		Issues: schema.Validate(cfg),
		Raw:    raw,
	}
}

func (l *Loader) logIssues(r schema.Result) {
	fields := make([]zap.Field, 0, len(r.Errors))
	for _, is := range r.Errors {
		fields = append(fields, zap.String(is.Field, is.Message))
	}
	l.log.Warn("config candidate was invalid, untrusted fields replaced by defaults", fields...)
}
