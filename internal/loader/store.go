package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/aellingwood/linkforge/internal/config"
	"github.com/aellingwood/linkforge/internal/merge"
)

// Change describes a replaced configuration.
type Change struct {
	Config *config.Config
	// Sections lists the top-level sections the change touched, sorted.
	Sections []string
	State    State
}

// Touches reports whether section is among the touched sections.
func (c Change) Touches(section string) bool {
	return slices.Contains(c.Sections, section)
}

// Store holds the single resident configuration. Reads never block: the
// current Result is swapped atomically and never modified after it is
// published. Writers are serialized, and subscribers see changes in the
// order they were published.
type Store struct {
	loader *Loader
	cur    atomic.Pointer[Result]

	mu    sync.Mutex // writers
	pubMu sync.Mutex // delivery to subscribers

	subMu  sync.Mutex
	subs   map[int]func(Change)
	nextID int
}

// NewStore returns a Store serving initial. A nil initial is replaced by the
// loader's defaults.
func NewStore(l *Loader, initial *Result) *Store {
	if l == nil {
		l = New()
	}
	if initial == nil {
		initial = l.Resolve(nil)
	}
	s := &Store{loader: l, subs: make(map[int]func(Change))}
	s.cur.Store(initial)
	return s
}

// Open loads the configuration with l and returns a Store serving it.
func Open(ctx context.Context, l *Loader) *Store {
	return NewStore(l, l.Load(ctx))
}

// Config returns the current configuration. Callers must treat it as
// read-only.
func (s *Store) Config() *config.Config {
	return s.cur.Load().Config
}

// Result returns the outcome of the load or update that produced the
// current configuration.
func (s *Store) Result() *Result {
	return s.cur.Load()
}

// Update merges partial onto the stored candidate, runs it through the
// pipeline again and publishes the result. Text is escaped once, from the
// raw values, no matter how many updates came before.
func (s *Store) Update(partial map[string]any) *Result {
	res, notify := s.write(func(prev *Result) (*Result, []string) {
		res := s.loader.Resolve(merge.Merge(prev.Raw, partial))
		res.Source = prev.Source
		return res, touched(partial)
	})
	notify()
	return res
}

// UpdateJSON decodes data as a partial document and applies it with Update.
func (s *Store) UpdateJSON(data []byte) (*Result, error) {
	var partial map[string]any
	if err := json.Unmarshal(data, &partial); err != nil {
		return nil, fmt.Errorf("decoding update: %w", err)
	}
	return s.Update(partial), nil
}

// Reload fetches from the sources again and publishes the result. Only
// sections whose final values changed are reported as touched.
func (s *Store) Reload(ctx context.Context) *Result {
	res, notify := s.write(func(prev *Result) (*Result, []string) {
		res := s.loader.Load(ctx)
		return res, diff(prev.Config, res.Config)
	})
	notify()
	return res
}

// Subscribe registers fn to be called after every change. Callbacks run on
// the writer's goroutine, in publish order, after the writer lock is
// released. They may subscribe or unsubscribe but must not call Update or
// Reload. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// write computes the next Result under the writer lock and swaps it in. The
// returned notify delivers the change to the subscribers registered at swap
// time and must be called exactly once.
func (s *Store) write(next func(prev *Result) (*Result, []string)) (*Result, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, sections := next(s.cur.Load())
	s.cur.Store(res)
	if len(sections) == 0 {
		return res, func() {}
	}
	fns := s.subscribers()
	ch := Change{Config: res.Config, Sections: sections, State: res.State}

	// Taken before mu is released so deliveries keep publish order.
	s.pubMu.Lock()
	return res, func() {
		defer s.pubMu.Unlock()
		for _, fn := range fns {
			fn(ch)
		}
	}
}

// subscribers returns the current callbacks in subscription order.
func (s *Store) subscribers() []func(Change) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Change), len(ids))
	for i, id := range ids {
		fns[i] = s.subs[id]
	}
	return fns
}

// touched returns the top-level keys partial has an opinion on.
func touched(partial map[string]any) []string {
	var out []string
	for k, v := range partial {
		if v != nil {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// diff returns the top-level sections that differ between a and b.
func diff(a, b *config.Config) []string {
	da, errA := config.ToDocument(a)
	db, errB := config.ToDocument(b)
	if errA != nil || errB != nil {
		return touched(db)
	}
	var out []string
	for k := range db {
		if !reflect.DeepEqual(da[k], db[k]) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
