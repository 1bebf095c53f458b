package description

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Key identifies a description. An empty Label is the category-level entry.
type Key struct {
	Category string
	Label    string
}

// Row is one description.
type Row struct {
	Category    string `json:"category"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Key returns the row's index key.
func (r Row) Key() Key {
	return Key{Category: r.Category, Label: r.Label}
}

// Table is an immutable set of rows indexed uniquely by Key.
type Table struct {
	rows  []Row
	index map[Key]int
}

// BuildTable strips markup from the category and label of every row and
// indexes the result. Descriptions keep their markup since the client renders
// them as rich text. Callers must not pass two rows with the same key.
func BuildTable(rows []Row) (*Table, error) {
	clean := make([]Row, len(rows))
	for i, r := range rows {
		clean[i] = Row{
			Category:    StripMarkup(r.Category),
			Label:       StripMarkup(r.Label),
			Description: r.Description,
		}
	}
	return indexRows(clean)
}

// MustBuildTable is BuildTable for static rows known to be unique.
func MustBuildTable(rows []Row) *Table {
	t, err := BuildTable(rows)
	if err != nil {
		panic(err)
	}
	return t
}

func indexRows(rows []Row) (*Table, error) {
	t := &Table{rows: rows, index: make(map[Key]int, len(rows))}
	for i, r := range rows {
		k := r.Key()
		if _, dup := t.index[k]; dup {
			return nil, fmt.Errorf("%w: %q/%q", ErrDuplicateKey, k.Category, k.Label)
		}
		t.index[k] = i
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Lookup returns the description stored for (category, label).
func (t *Table) Lookup(category, label string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[Key{Category: category, Label: label}]
	if !ok {
		return "", false
	}
	return t.rows[i].Description, true
}

// Rows returns a copy of the rows in table order.
func (t *Table) Rows() []Row {
	if t == nil {
		return nil
	}
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Nested returns the table as {category: {label: description}}, the shape
// served to the client.
func (t *Table) Nested() map[string]map[string]string {
	out := make(map[string]map[string]string)
	if t == nil {
		return out
	}
	for _, r := range t.rows {
		m, ok := out[r.Category]
		if !ok {
			m = make(map[string]string)
			out[r.Category] = m
		}
		m[r.Label] = r.Description
	}
	return out
}

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Category != rows[j].Category {
			return rows[i].Category < rows[j].Category
		}
		return rows[i].Label < rows[j].Label
	})
}

// StripMarkup parses s as an HTML fragment and returns its text nodes
// concatenated in document order, with entities decoded.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
