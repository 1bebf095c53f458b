package generator

import (
	"fmt"
	"strings"
)

// TagSeparator joins category and label in the serialised tag.
const TagSeparator = "|"

// Tag identifies one registered generator.
type Tag struct {
	Category string
	Label    string
}

// String returns "category|label".
func (t Tag) String() string {
	return t.Category + TagSeparator + t.Label
}

// ParseTag splits "category|label" at the first separator.
func ParseTag(s string) (Tag, error) {
	cat, label, ok := strings.Cut(s, TagSeparator)
	if !ok || cat == "" || label == "" {
		return Tag{}, fmt.Errorf("%w: %q", ErrInvalidTag, s)
	}
	return Tag{Category: cat, Label: label}, nil
}

// validate reports whether t survives a String/ParseTag round trip.
func (t Tag) validate() error {
	switch {
	case t.Label == "":
		return fmt.Errorf("%w: empty label in category %q", ErrInvalidLabels, t.Category)
	case t.Category == "":
		return fmt.Errorf("%w: empty category for label %q", ErrInvalidLabels, t.Label)
	case strings.Contains(t.Category, TagSeparator):
		return fmt.Errorf("%w: category %q contains %q", ErrInvalidLabels, t.Category, TagSeparator)
	}
	return nil
}
