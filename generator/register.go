package generator

import (
	"context"
	"fmt"

	"multiplot.GO/description"
)

// Registrar registers the generators of one module. It carries the module's
// default category and documentation.
type Registrar struct {
	reg      *Registry
	category string
	doc      string
}

// Module returns a Registrar for a generator module. category may be empty
// when every registration names its own categories; doc supplies the
// category-level description.
func (r *Registry) Module(category, doc string) *Registrar {
	return &Registrar{reg: r, category: category, doc: doc}
}

// Category returns the module's default category.
func (m *Registrar) Category() string {
	return m.category
}

type registerOptions struct {
	text    *string
	texts   map[string]string
	source  description.Source
	setOpts int
}

// Option sets the description of a registration. At most one may be given;
// without one the description comes from Generator.Doc.
type Option func(*registerOptions)

// Description sets the text of the single label being registered.
func Description(text string) Option {
	return func(o *registerOptions) {
		o.text = &text
		o.setOpts++
	}
}

// Descriptions maps labels to text. Keys are looked up as "category|label"
// first, then as the bare label. Labels missing from m get no description.
func Descriptions(m map[string]string) Option {
	return func(o *registerOptions) {
		o.texts = m
		o.setOpts++
	}
}

// DescriptionSource evaluates src once during registration and adds its
// table as-is. Category rows from the module doc are added only for
// categories src does not describe.
func DescriptionSource(src description.Source) Option {
	return func(o *registerOptions) {
		o.source = src
		o.setOpts++
	}
}

// MustRegister is like Register but panics on error.
func (m *Registrar) MustRegister(labels any, g Generator, opts ...Option) {
	if err := m.Register(labels, g, opts...); err != nil {
		panic(err)
	}
}

// Register resolves labels (see ResolveLabels) and registers g under each of
// them together with their descriptions. On error nothing is registered.
func (m *Registrar) Register(labels any, g Generator, opts ...Option) error {
	reg := m.reg
	if reg.Frozen() {
		return ErrFrozen
	}
	if g.Func == nil {
		return fmt.Errorf("%w: %q has no function", ErrInvalidGenerator, g.Name)
	}

	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.setOpts > 1 {
		return fmt.Errorf("%w: %q has more than one description option", ErrInvalidGenerator, g.Name)
	}

	pairs, warnings, err := ResolveLabels(labels, m.category)
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name, err)
	}
	for _, w := range warnings {
		reg.log().Warn().Str("generator", g.Name).Msg(w)
	}
	for _, p := range pairs {
		if p.Category == "" {
			return fmt.Errorf("%w: %q (generator %s)", ErrMissingCategory, p.Label, g.Name)
		}
		if err := p.Tag().validate(); err != nil {
			return fmt.Errorf("%s: %w", g.Name, err)
		}
	}

	labelRows, err := m.labelRows(pairs, g, o)
	if err != nil {
		return err
	}

	var sourced *description.Table
	if o.source != nil {
		sourced, err = o.source.Descriptions(context.Background())
		if err != nil {
			return fmt.Errorf("%w: description source %s: %w", ErrInvalidGenerator, o.source.Name(), err)
		}
	}

	gen := g
	reg.mu.Lock()
	catRows := m.categoryRows(pairs, sourced)
	rows := dedupeRows(append(labelRows, catRows...), func(k description.Key) {
		reg.log().Warn().Str("generator", g.Name).Str("category", k.Category).Str("label", k.Label).
			Msg("labels share a description key once markup is stripped; keeping the first description")
	})
	table, err := description.BuildTable(rows)
	if err == nil {
		err = reg.add(pairs, &gen)
	}
	if err == nil {
		for _, row := range catRows {
			reg.described[row.Category] = true
		}
	}
	reg.mu.Unlock()
	if err != nil {
		return err
	}

	if sourced != nil {
		reg.sources.AddTable(o.source.Name(), sourced)
	}
	if table.Len() > 0 {
		reg.sources.AddTable(sourceName(pairs, g), table)
	}
	return nil
}

func (m *Registrar) labelRows(pairs []LabelPair, g Generator, o registerOptions) ([]description.Row, error) {
	if o.source != nil {
		return nil, nil
	}
	var rows []description.Row
	add := func(p LabelPair, text string) {
		if text != "" {
			rows = append(rows, description.Row{Category: p.Category, Label: p.Label, Description: text})
		}
	}
	switch {
	case o.text != nil:
		if len(pairs) != 1 {
			return nil, fmt.Errorf("%w: %s resolved %d labels", ErrAmbiguousDescription, g.Name, len(pairs))
		}
		add(pairs[0], *o.text)
	case o.texts != nil:
		for _, p := range pairs {
			text, ok := o.texts[p.Tag().String()]
			if !ok {
				text = o.texts[p.Label]
			}
			add(p, text)
		}
	default:
		text := description.FromDoc(g.Doc)
		for _, p := range pairs {
			add(p, text)
		}
	}
	return rows, nil
}

// categoryRows returns the category descriptions still missing. Callers hold
// reg.mu.
func (m *Registrar) categoryRows(pairs []LabelPair, sourced *description.Table) []description.Row {
	text := description.FromDoc(m.doc)
	if text == "" {
		return nil
	}
	var rows []description.Row
	seen := make(map[string]bool)
	for _, p := range pairs {
		cat := p.Category
		if seen[cat] || m.reg.described[cat] {
			continue
		}
		seen[cat] = true
		if _, ok := sourced.Lookup(cat, ""); ok {
			continue
		}
		rows = append(rows, description.Row{Category: cat, Description: text})
	}
	return rows
}

// dedupeRows drops rows whose markup-stripped key repeats an earlier row.
// Distinct tags such as "SO<sub>2</sub>" and "SO2" share one description key.
func dedupeRows(rows []description.Row, dropped func(description.Key)) []description.Row {
	seen := make(map[description.Key]bool, len(rows))
	out := make([]description.Row, 0, len(rows))
	for _, r := range rows {
		k := description.Key{Category: description.StripMarkup(r.Category), Label: description.StripMarkup(r.Label)}
		if seen[k] {
			dropped(k)
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

func sourceName(pairs []LabelPair, g Generator) string {
	if g.Name != "" {
		return "generator:" + g.Name
	}
	if len(pairs) > 0 {
		return "generator:" + pairs[0].Tag().String()
	}
	return "generator"
}
