package generator

import (
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ParseArgs parses the client's addArgs string, e.g. "types=ground&types=airborne".
func ParseArgs(raw string) (url.Values, error) {
	return url.ParseQuery(raw)
}

// Decode copies Args into out, a pointer to a struct whose fields carry
// `arg:"name"` tags. Single values fill slices and are converted to the
// field type where possible.
func (q Query) Decode(out interface{}) error {
	m := make(map[string]interface{}, len(q.Args))
	for k, v := range q.Args {
		if len(v) == 1 {
			m[k] = v[0]
		} else {
			m[k] = v
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "arg",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

// Padded returns the requested range widened by pad on each side. Unset
// bounds stay unset.
func (q Query) Padded(pad time.Duration) (start, end *time.Time) {
	if q.Start != nil {
		s := q.Start.Add(-pad)
		start = &s
	}
	if q.End != nil {
		e := q.End.Add(pad)
		end = &e
	}
	return start, end
}
