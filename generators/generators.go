// Package generators lists the plot generator modules and registers them.
package generators

import (
	"context"
	"fmt"
	"time"

	"multiplot.GO/core/cache"
	"multiplot.GO/core/logging"
	"multiplot.GO/description"
	"multiplot.GO/generator"
	"multiplot.GO/generators/database"
	"multiplot.GO/generators/preevents"
	"multiplot.GO/generators/sample"
)

// Deps are the stores generator modules read from. A nil repository skips the
// modules that need it.
type Deps struct {
	Plots     database.Repository
	Preevents preevents.Repository
	Volcanoes interface {
		ID(name string) (int, bool)
	}
	// Cache holds database description tables for CacheTTL. Nil disables
	// caching.
	Cache    cache.Store
	CacheTTL time.Duration
}

type module struct {
	name     string
	enabled  func(Deps) bool
	register func(context.Context, *generator.Registry, Deps) error
}

var modules = []module{
	{
		name:    "sample",
		enabled: func(Deps) bool { return true },
		register: func(_ context.Context, reg *generator.Registry, _ Deps) error {
			return sample.Register(reg)
		},
	},
	{
		name:    "database",
		enabled: func(d Deps) bool { return d.Plots != nil },
		register: func(ctx context.Context, reg *generator.Registry, d Deps) error {
			return database.Register(ctx, reg, d.Plots, d.Volcanoes)
		},
	},
	{
		name:    "preevents",
		enabled: func(d Deps) bool { return d.Preevents != nil },
		register: func(ctx context.Context, reg *generator.Registry, d Deps) error {
			return preevents.Register(ctx, reg, d.Preevents, d.Volcanoes)
		},
	},
}

// Register adds the database description sources to reg's sources, then
// registers every module whose dependencies are present. Database sources
// come first so curated descriptions in the databases win under KeepFirst.
func Register(ctx context.Context, reg *generator.Registry, d Deps) error {
	sources := reg.Sources()
	if d.Plots != nil {
		sources.Add(cached(database.DescriptionSource(d.Plots), d))
	}
	if d.Preevents != nil {
		sources.Add(cached(preevents.DescriptionSource(d.Preevents), d))
	}

	for _, m := range modules {
		if !m.enabled(d) {
			logging.Warn().Str("module", m.name).Msg("generator module disabled, database not configured")
			continue
		}
		if err := m.register(ctx, reg, d); err != nil {
			return fmt.Errorf("generator module %s: %w", m.name, err)
		}
	}
	return nil
}

// Names returns the module names in registration order.
func Names() []string {
	out := make([]string, len(modules))
	for i, m := range modules {
		out[i] = m.name
	}
	return out
}

func cached(src description.Source, d Deps) description.Source {
	if d.Cache == nil {
		return src
	}
	return description.Cached(src, d.Cache, d.CacheTTL)
}
