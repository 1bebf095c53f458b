package sample

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"multiplot.GO/generator"
)

func registry(t *testing.T) *generator.Registry {
	t.Helper()
	reg := generator.NewRegistry(nil)
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	reg.Freeze()
	return reg
}

func TestRegister_Categories(t *testing.T) {
	want := []generator.Category{
		{Name: Category, Labels: []string{"Simple Example", "String Description Example", "Type A", "Type B", "Type C", "Type D"}},
		{Name: "Remote Sensing", Labels: []string{"Gas Flux"}},
		{Name: "Gas Data", Labels: []string{"SO2"}},
		{Name: "Sample Category", Labels: []string{"Dynamic 1", "Dynamic 2"}},
	}
	if diff := cmp.Diff(want, registry(t).Categories()); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
}

func TestRegister_Descriptions(t *testing.T) {
	table := registry(t).Sources().Merge(context.Background())
	want := map[[2]string]string{
		{Category, ""}:                           "Example datasets demonstrating the plot plugin system.",
		{Category, "Simple Example"}:             "This is a basic example using a single label and the module category.\n\nThis text is shown as the description in the GUI.",
		{Category, "String Description Example"}: "A simple description for this dataset.",
		{Category, "Type A"}:                     "One function serving several labels in the module category.",
		{Category, "Type C"}:                     "First dataset description.",
		{Category, "Type D"}:                     "Second dataset description.",
		{"Sample Category", "Dynamic 2"}:         "This is the second one.",
		{"Gas Data", ""}:                         "Example datasets demonstrating the plot plugin system.",
	}
	for key, text := range want {
		if got, _ := table.Lookup(key[0], key[1]); got != text {
			t.Errorf("%v = %q, want %q", key, got, text)
		}
	}
	if _, ok := table.Lookup("Remote Sensing", "Gas Flux"); ok {
		t.Error("undocumented generator got a description")
	}
}

func TestPerLabel(t *testing.T) {
	reg := registry(t)
	end := time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -2)
	out, err := reg.Dispatch(context.Background(), "Gas Data|SO2", generator.Query{Start: &start, End: &end})
	if err != nil {
		t.Fatal(err)
	}
	want := Generic{
		Date:   []string{"2024-02-01", "2024-02-02", "2024-02-03"},
		Y:      []float64{3, 3, 3},
		YLabel: "SO2",
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}
}
