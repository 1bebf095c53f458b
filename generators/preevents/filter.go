package preevents

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	repo "multiplot.GO/model/repository/preevents"
)

// ErrBadFilter is returned for filters ParseFilter cannot read.
var ErrBadFilter = errors.New("invalid filter")

var (
	jsonConditionRe  = regexp.MustCompile(`^(\w+)(?:\.|->>)(\w+)\s*(=|!=|>=|<=|>|<)\s*(.+)$`)
	plainConditionRe = regexp.MustCompile(`^(\w+)\s*(=|!=|>=|<=|>|<)\s*(.+)$`)
	floatRe          = regexp.MustCompile(`^-?\d+\.\d+$`)
)

// ParseFilter reads "<variable id>|<condition>", where condition is one of
//
//	datavalue=0
//	categoryvalue.satellite = Aqua
//	categoryvalue->>satellite != Aqua
//
// Integer and decimal values are typed; anything else stays a string.
func ParseFilter(s string) (repo.Filter, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return repo.Filter{}, fmt.Errorf("%w: %q: want <variable id>|<condition>", ErrBadFilter, s)
	}
	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return repo.Filter{}, fmt.Errorf("%w: %q: variable id: %v", ErrBadFilter, s, err)
	}

	f := repo.Filter{VariableID: id}
	cond := strings.TrimSpace(parts[1])
	var value string
	if m := jsonConditionRe.FindStringSubmatch(cond); m != nil {
		f.Column, f.Key, f.Op, value = m[1], m[2], m[3], m[4]
	} else if m := plainConditionRe.FindStringSubmatch(cond); m != nil {
		f.Column, f.Op, value = m[1], m[2], m[3]
	} else {
		return repo.Filter{}, fmt.Errorf("%w: condition %q", ErrBadFilter, cond)
	}
	f.Value = typedValue(strings.TrimSpace(value))
	return f, nil
}

func typedValue(v string) interface{} {
	if i, err := strconv.Atoi(v); err == nil && !strings.HasPrefix(v, "+") {
		return i
	}
	if floatRe.MatchString(v) {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}
