package generator

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolveLabels(t *testing.T) {
	tests := []struct {
		name string
		spec any
		want []LabelPair
	}{
		{"string", "Magnitude", []LabelPair{{"Magnitude", "Seismology"}}},
		{"pair", LabelPair{"SO2", "Gas"}, []LabelPair{{"SO2", "Gas"}}},
		{"strings", []string{"Magnitude", "Depth"}, []LabelPair{{"Magnitude", "Seismology"}, {"Depth", "Seismology"}}},
		{"pairs", []LabelPair{{"Gas Flux", "Remote Sensing"}, {"SO2", "Gas Data"}}, []LabelPair{{"Gas Flux", "Remote Sensing"}, {"SO2", "Gas Data"}}},
		{"tuples", [][]string{{"Gas Flux", "Remote Sensing"}, {"SO2", "Gas Data"}}, []LabelPair{{"Gas Flux", "Remote Sensing"}, {"SO2", "Gas Data"}}},
		{"mixed", []any{"Depth", []any{"SO2", "Gas"}, LabelPair{"CO2", "Gas"}}, []LabelPair{{"Depth", "Seismology"}, {"SO2", "Gas"}, {"CO2", "Gas"}}},
		{"func any", func() any { return []string{"A", "B"} }, []LabelPair{{"A", "Seismology"}, {"B", "Seismology"}}},
		{"func string", func() string { return "A" }, []LabelPair{{"A", "Seismology"}}},
		{"label func", LabelFunc(func() ([]LabelPair, error) {
			return []LabelPair{{"Tilt", "Deformation"}}, nil
		}), []LabelPair{{"Tilt", "Deformation"}}},
		{"empty", []string{}, []LabelPair{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings, err := ResolveLabels(tt.spec, "Seismology")
			if err != nil {
				t.Fatalf("ResolveLabels: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings %v", warnings)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pairs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveLabels_ExtraTupleElementsWarn(t *testing.T) {
	got, warnings, err := ResolveLabels([][]string{{"SO2", "Gas", "ppm"}}, "")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]LabelPair{{"SO2", "Gas"}}, got); diff != "" {
		t.Errorf("pairs mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
}

func TestResolveLabels_Invalid(t *testing.T) {
	tests := map[string]any{
		"nil":             nil,
		"int":             42,
		"short tuple":     [][]string{{"SO2"}},
		"non-string pair": []any{[]any{"SO2", 3}},
		"bad element":     []any{1.5},
		"func chain":      func() any { return func() any { return "A" } },
		"map":             map[string]string{"A": "B"},
	}
	for name, spec := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ResolveLabels(spec, "Seismology"); !errors.Is(err, ErrInvalidLabels) {
				t.Errorf("err = %v, want ErrInvalidLabels", err)
			}
		})
	}
}

func TestResolveLabels_LabelFuncError(t *testing.T) {
	boom := errors.New("db down")
	_, _, err := ResolveLabels(LabelFunc(func() ([]LabelPair, error) { return nil, boom }), "x")
	if !errors.Is(err, ErrInvalidLabels) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrInvalidLabels wrapping cause", err)
	}
}
