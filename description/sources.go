package description

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"multiplot.GO/core/logging"
)

// Source produces a description table, typically from a database query.
type Source interface {
	Name() string
	Descriptions(ctx context.Context) (*Table, error)
}

// Refresher is implemented by sources that keep a cached copy.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type funcSource struct {
	name string
	fn   func(ctx context.Context) (*Table, error)
}

// NewSource wraps fn as a Source named name.
func NewSource(name string, fn func(ctx context.Context) (*Table, error)) Source {
	return &funcSource{name: name, fn: fn}
}

func (s *funcSource) Name() string { return s.name }

func (s *funcSource) Descriptions(ctx context.Context) (*Table, error) {
	return s.fn(ctx)
}

type staticSource struct {
	name  string
	table *Table
}

// Static returns a Source that always yields t.
func Static(name string, t *Table) Source {
	return &staticSource{name: name, table: t}
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Descriptions(context.Context) (*Table, error) {
	return s.table, nil
}

// Policy decides which row survives when several sources describe the same key.
type Policy int

const (
	// KeepFirst keeps the row from the earliest registered source.
	KeepFirst Policy = iota
	// KeepLast keeps the row from the latest registered source.
	KeepLast
)

func (p Policy) String() string {
	if p == KeepLast {
		return "last"
	}
	return "first"
}

// ParsePolicy accepts "first" or "last". Empty means KeepFirst.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	}
	return KeepFirst, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// maxConcurrentSources bounds how many sources Merge evaluates at once.
const maxConcurrentSources = 8

// Sources is the append-only list of description sources.
type Sources struct {
	mu     sync.RWMutex
	list   []Source
	policy Policy
	logger *zerolog.Logger
}

// Option configures Sources.
type Option func(*Sources)

// WithPolicy sets the duplicate-key policy.
func WithPolicy(p Policy) Option {
	return func(s *Sources) { s.policy = p }
}

// WithLogger sets the logger used for source failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sources) { s.logger = &l }
}

// NewSources returns an empty source list using KeepFirst.
func NewSources(opts ...Option) *Sources {
	s := &Sources{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the configured duplicate-key policy.
func (s *Sources) Policy() Policy {
	return s.policy
}

// Add appends src. Sources added earlier win under KeepFirst.
func (s *Sources) Add(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, src)
}

// AddTable appends a table computed once, at registration time.
func (s *Sources) AddTable(name string, t *Table) {
	s.Add(Static(name, t))
}

// Len returns the number of registered sources.
func (s *Sources) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

func (s *Sources) snapshot() []Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Source, len(s.list))
	copy(out, s.list)
	return out
}

func (s *Sources) log() *zerolog.Logger {
	if s.logger != nil {
		return s.logger
	}
	l := logging.Logger()
	return &l
}

// Merge evaluates every source, concatenates their tables in registration
// order and collapses duplicate keys according to the policy. A source that
// fails is logged and skipped. The result is sorted by (category, label).
func (s *Sources) Merge(ctx context.Context) *Table {
	list := s.snapshot()
	tables := make([]*Table, len(list))
	errs := make([]error, len(list))

	var g errgroup.Group
	g.SetLimit(maxConcurrentSources)
	for i, src := range list {
		g.Go(func() error {
			tables[i], errs[i] = call(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[Key]Row)
	for i, t := range tables {
		if errs[i] != nil {
			s.log().Warn().Err(errs[i]).Str("source", list[i].Name()).Msg("description source failed, skipping")
			continue
		}
		for _, r := range t.Rows() {
			k := r.Key()
			if _, seen := merged[k]; seen && s.policy == KeepFirst {
				continue
			}
			merged[k] = r
		}
	}

	rows := make([]Row, 0, len(merged))
	for _, r := range merged {
		rows = append(rows, r)
	}
	sortRows(rows)
	t, _ := indexRows(rows) // keys are unique by construction
	return t
}

// Refresh reloads every cached source. Errors are joined; one failing source
// does not stop the others.
func (s *Sources) Refresh(ctx context.Context) error {
	var errs []error
	for _, src := range s.snapshot() {
		r, ok := src.(Refresher)
		if !ok {
			continue
		}
		if err := r.Refresh(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// call invokes src, turning a panic into an error.
func call(ctx context.Context, src Source) (t *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return src.Descriptions(ctx)
}
