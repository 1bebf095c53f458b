package generator

import "context"

type currentTagKey struct{}

// WithCurrentTag returns a copy of ctx carrying tag as the plot currently
// being generated.
func WithCurrentTag(ctx context.Context, tag Tag) context.Context {
	return context.WithValue(ctx, currentTagKey{}, tag)
}

// CurrentTag returns the tag set by Dispatch for this request. Outside a
// dispatch it fails with ErrNoCurrentTag.
func CurrentTag(ctx context.Context) (Tag, error) {
	if t, ok := ctx.Value(currentTagKey{}).(Tag); ok {
		return t, nil
	}
	return Tag{}, ErrNoCurrentTag
}
