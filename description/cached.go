package description

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"multiplot.GO/core/cache"
)

// cachedSource keeps the table of a slow source in a cache.Store.
type cachedSource struct {
	src   Source
	store cache.Store
	ttl   time.Duration
	key   string
}

// Cached wraps src so its table is served from store for ttl. The wrapper
// implements Refresher.
func Cached(src Source, store cache.Store, ttl time.Duration) Source {
	return &cachedSource{
		src:   src,
		store: store,
		ttl:   ttl,
		key:   cache.Key("descriptions", src.Name()),
	}
}

func (c *cachedSource) Name() string { return c.src.Name() }

func (c *cachedSource) Descriptions(ctx context.Context) (*Table, error) {
	if b, ok, err := c.store.Load(ctx, c.key); err == nil && ok {
		var rows []Row
		if json.Unmarshal(b, &rows) == nil {
			if t, err := indexRows(rows); err == nil {
				return t, nil
			}
		}
	}
	return c.load(ctx)
}

func (c *cachedSource) load(ctx context.Context) (*Table, error) {
	t, err := c.src.Descriptions(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(t.Rows()); err == nil {
		// A cache write failure only costs a reload next time.
		_ = c.store.Save(ctx, c.key, b, c.ttl)
	}
	return t, nil
}

// Refresh drops the cached copy and reloads it from the wrapped source.
func (c *cachedSource) Refresh(ctx context.Context) error {
	if err := c.store.Invalidate(ctx, c.key); err != nil {
		return err
	}
	_, err := c.load(ctx)
	return err
}
