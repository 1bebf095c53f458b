package generator

import "fmt"

// LabelPair is a resolved (label, category) registration target.
type LabelPair struct {
	Label    string
	Category string
}

// Tag converts the pair into a Tag.
func (p LabelPair) Tag() Tag {
	return Tag{Category: p.Category, Label: p.Label}
}

// LabelFunc discovers labels at startup.
type LabelFunc func() ([]LabelPair, error)

// maxLabelHops is how many label functions may be chained. A label function
// must return labels, not another function.
const maxLabelHops = 1

// ResolveLabels normalises a label specification into (label, category)
// pairs, preserving order. Accepted shapes:
//
//	string                        one label in defaultCategory
//	LabelPair                     one label with its own category
//	[]string                      labels in defaultCategory
//	[]LabelPair                   labels with their own categories
//	[][]string                    {label, category, ...}; extras are ignored with a warning
//	[]any                         any mix of string, LabelPair, []string, []any elements
//	func() any, func() []string,
//	func() []LabelPair,
//	func() ([]LabelPair, error),
//	LabelFunc                     labels discovered at startup, e.g. from a database
//
// Pairs may come back with an empty Category when defaultCategory is empty;
// the caller decides whether that is an error. Warnings describe input that
// was accepted but partly ignored.
func ResolveLabels(spec any, defaultCategory string) ([]LabelPair, []string, error) {
	var warnings []string
	pairs, err := resolve(spec, defaultCategory, 0, &warnings)
	if err != nil {
		return nil, nil, err
	}
	return pairs, warnings, nil
}

func resolve(spec any, cat string, hops int, warnings *[]string) ([]LabelPair, error) {
	switch v := spec.(type) {
	case string:
		return []LabelPair{{Label: v, Category: cat}}, nil
	case LabelPair:
		return []LabelPair{v}, nil
	case []string:
		out := make([]LabelPair, len(v))
		for i, l := range v {
			out[i] = LabelPair{Label: l, Category: cat}
		}
		return out, nil
	case []LabelPair:
		out := make([]LabelPair, len(v))
		copy(out, v)
		return out, nil
	case [][]string:
		out := make([]LabelPair, 0, len(v))
		for _, item := range v {
			p, err := tuple(toAny(item), warnings)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case []any:
		out := make([]LabelPair, 0, len(v))
		for _, item := range v {
			p, err := element(item, cat, warnings)
			if err != nil {
				return nil, err
			}
			out = append(out, p)
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrInvalidLabels)
	}

	call, ok := labelFunc(spec)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidLabels, spec)
	}
	if hops >= maxLabelHops {
		return nil, fmt.Errorf("%w: label function chain longer than %d", ErrInvalidLabels, maxLabelHops)
	}
	next, err := call()
	if err != nil {
		return nil, fmt.Errorf("%w: label function: %w", ErrInvalidLabels, err)
	}
	return resolve(next, cat, hops+1, warnings)
}

func labelFunc(spec any) (func() (any, error), bool) {
	switch f := spec.(type) {
	case func() any:
		return func() (any, error) { return f(), nil }, true
	case func() string:
		return func() (any, error) { return f(), nil }, true
	case func() []string:
		return func() (any, error) { return f(), nil }, true
	case func() []LabelPair:
		return func() (any, error) { return f(), nil }, true
	case func() ([]LabelPair, error):
		return func() (any, error) { return f() }, true
	case LabelFunc:
		return func() (any, error) { return f() }, true
	}
	return nil, false
}

func element(item any, cat string, warnings *[]string) (LabelPair, error) {
	switch v := item.(type) {
	case string:
		return LabelPair{Label: v, Category: cat}, nil
	case LabelPair:
		return v, nil
	case []string:
		return tuple(toAny(v), warnings)
	case []any:
		return tuple(v, warnings)
	}
	return LabelPair{}, fmt.Errorf("%w: element of type %T, want string or (label, category)", ErrInvalidLabels, item)
}

// tuple reads {label, category, extra...}.
func tuple(item []any, warnings *[]string) (LabelPair, error) {
	if len(item) < 2 {
		return LabelPair{}, fmt.Errorf("%w: label tuple %v needs (label, category)", ErrInvalidLabels, item)
	}
	label, ok1 := item[0].(string)
	cat, ok2 := item[1].(string)
	if !ok1 || !ok2 {
		return LabelPair{}, fmt.Errorf("%w: label and category in %v must both be strings", ErrInvalidLabels, item)
	}
	if len(item) > 2 {
		*warnings = append(*warnings, fmt.Sprintf("ignoring %d extra element(s) in label tuple (%q, %q)", len(item)-2, label, cat))
	}
	return LabelPair{Label: label, Category: cat}, nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
