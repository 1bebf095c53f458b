package generator

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"multiplot.GO/core/logging"
	"multiplot.GO/description"
)

// Query carries the request parameters passed to a generator.
type Query struct {
	Volcano string
	Start   *time.Time
	End     *time.Time
	// Args holds generator-specific options (the client's addArgs string).
	Args url.Values
}

// Func produces plot data. The returned value is serialised to JSON as-is.
type Func func(ctx context.Context, q Query) (any, error)

// Generator is a registered plot data function.
type Generator struct {
	// Name selects a matching client-side renderer; generators returning
	// the generic {date, y, ylabel} shape leave it empty.
	Name string
	// Doc is used as the description of each label unless one is given
	// at registration.
	Doc  string
	Func Func
}

// Category is one entry of the navigation menu.
type Category struct {
	Name   string
	Labels []string
}

// Registry maps tags to generators. It is open for registration until
// Freeze; afterwards reads take no lock.
type Registry struct {
	mu         sync.RWMutex
	frozen     atomic.Bool
	funcs      map[Tag]*Generator
	categories map[string][]string
	catOrder   []string
	described  map[string]bool
	sources    *description.Sources
	logger     *zerolog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration warnings.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = &l }
}

// NewRegistry returns an open registry that feeds registration-time
// descriptions into sources. A nil sources gets a fresh KeepFirst list.
func NewRegistry(sources *description.Sources, opts ...RegistryOption) *Registry {
	if sources == nil {
		sources = description.NewSources()
	}
	r := &Registry{
		funcs:      make(map[Tag]*Generator),
		categories: make(map[string][]string),
		described:  make(map[string]bool),
		sources:    sources,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Sources returns the description sources fed by registration.
func (r *Registry) Sources() *description.Sources {
	return r.sources
}

func (r *Registry) log() *zerolog.Logger {
	if r.logger != nil {
		return r.logger
	}
	l := logging.Logger()
	return &l
}

// Freeze closes the registry. Call it once, before serving requests.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen.Load()
}

// rlock takes the read lock while registration is still open.
func (r *Registry) rlock() func() {
	if r.frozen.Load() {
		return func() {}
	}
	r.mu.RLock()
	return r.mu.RUnlock
}

// add registers g under every pair, or under none of them. Callers hold r.mu.
func (r *Registry) add(pairs []LabelPair, g *Generator) error {
	if r.frozen.Load() {
		return ErrFrozen
	}
	seen := make(map[Tag]bool, len(pairs))
	for _, p := range pairs {
		t := p.Tag()
		if err := t.validate(); err != nil {
			return err
		}
		if _, dup := r.funcs[t]; dup || seen[t] {
			return fmt.Errorf("%w: label %q in category %q", ErrDuplicateLabel, p.Label, p.Category)
		}
		seen[t] = true
	}
	for _, p := range pairs {
		if _, ok := r.categories[p.Category]; !ok {
			r.catOrder = append(r.catOrder, p.Category)
		}
		r.categories[p.Category] = append(r.categories[p.Category], p.Label)
		r.funcs[p.Tag()] = g
	}
	return nil
}

// Lookup returns the generator registered under tag.
func (r *Registry) Lookup(tag Tag) (*Generator, bool) {
	defer r.rlock()()
	g, ok := r.funcs[tag]
	return g, ok
}

// Categories returns every category with its labels in registration order.
// Presentation order is up to the caller.
func (r *Registry) Categories() []Category {
	defer r.rlock()()
	out := make([]Category, len(r.catOrder))
	for i, name := range r.catOrder {
		labels := make([]string, len(r.categories[name]))
		copy(labels, r.categories[name])
		out[i] = Category{Name: name, Labels: labels}
	}
	return out
}

// SortCategories orders cats by name and each category's labels
// alphabetically, the order menus are shown in.
func SortCategories(cats []Category) {
	sort.Slice(cats, func(i, j int) bool { return cats[i].Name < cats[j].Name })
	for _, c := range cats {
		sort.Strings(c.Labels)
	}
}

// Renderers maps each serialised tag to its generator's Name.
func (r *Registry) Renderers() map[string]string {
	defer r.rlock()()
	out := make(map[string]string, len(r.funcs))
	for t, g := range r.funcs {
		out[t.String()] = g.Name
	}
	return out
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	defer r.rlock()()
	return len(r.funcs)
}

// Dispatch runs the generator registered under the serialised tag with the
// tag stored in its context. Generator errors and panics come back wrapped in
// ErrGeneratorFailed.
func (r *Registry) Dispatch(ctx context.Context, tag string, q Query) (result any, err error) {
	t, err := ParseTag(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	g, ok := r.Lookup(t)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, tag)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("%w: %s: panic: %v", ErrGeneratorFailed, tag, rec)
		}
	}()
	result, err = g.Func(WithCurrentTag(ctx, t), q)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGeneratorFailed, tag, err)
	}
	return result, nil
}
