package graphql

import (
	"context"
	"sync"

	"multiplot.GO/description"
)

// Context keys for resolver injection (avoids circular imports).
type contextKey string

const ctxKeyDescriptions contextKey = "descriptions"

type descriptionMemo struct {
	once  sync.Once
	table *description.Table
}

// WithDescriptionMemo lets every field of one request share a single merged
// description table.
func WithDescriptionMemo(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyDescriptions, &descriptionMemo{})
}

// Descriptions merges sources at most once per request carrying a memo, and
// on every call otherwise.
func Descriptions(ctx context.Context, sources *description.Sources) *description.Table {
	m, ok := ctx.Value(ctxKeyDescriptions).(*descriptionMemo)
	if !ok {
		return sources.Merge(ctx)
	}
	m.once.Do(func() { m.table = sources.Merge(ctx) })
	return m.table
}
