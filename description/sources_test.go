package description

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"multiplot.GO/core/cache"
)

func seismology(text string) *Table {
	return MustBuildTable([]Row{{Category: "Seismology", Label: "Magnitude", Description: text}})
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": KeepFirst, "first": KeepFirst, "LAST": KeepLast} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("newest"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("ParsePolicy(newest) err = %v, want ErrUnknownPolicy", err)
	}
}

func TestMerge_FirstRegisteredWins(t *testing.T) {
	s := NewSources()
	s.AddTable("spreadsheet", seismology("from spreadsheet"))
	s.Add(NewSource("database", func(context.Context) (*Table, error) {
		return seismology("from database"), nil
	}))

	got, ok := s.Merge(context.Background()).Lookup("Seismology", "Magnitude")
	if !ok || got != "from spreadsheet" {
		t.Errorf("Lookup = %q, %v; want first source's text", got, ok)
	}
}

func TestMerge_KeepLast(t *testing.T) {
	s := NewSources(WithPolicy(KeepLast))
	s.AddTable("a", seismology("first"))
	s.AddTable("b", seismology("second"))

	if got, _ := s.Merge(context.Background()).Lookup("Seismology", "Magnitude"); got != "second" {
		t.Errorf("Lookup = %q, want second", got)
	}
}

func TestMerge_SortedByKey(t *testing.T) {
	s := NewSources()
	s.AddTable("one", MustBuildTable([]Row{
		{Category: "Thermal", Label: "Radiative Power", Description: "r"},
		{Category: "Gas", Label: "SO2", Description: "s"},
	}))
	s.AddTable("two", MustBuildTable([]Row{
		{Category: "Gas", Label: "", Description: "g"},
		{Category: "Gas", Label: "CO2", Description: "c"},
	}))

	var keys []Key
	for _, r := range s.Merge(context.Background()).Rows() {
		keys = append(keys, r.Key())
	}
	want := []Key{
		{"Gas", ""}, {"Gas", "CO2"}, {"Gas", "SO2"}, {"Thermal", "Radiative Power"},
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_FailingSourceIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	s := NewSources(WithLogger(zerolog.New(&buf)))
	s.AddTable("generators", seismology("kept"))
	s.Add(NewSource("broken-db", func(context.Context) (*Table, error) {
		return nil, errors.New("connection refused")
	}))
	s.Add(NewSource("panicky", func(context.Context) (*Table, error) {
		panic("boom")
	}))
	s.AddTable("thermal", MustBuildTable([]Row{{Category: "Thermal", Label: "", Description: "t"}}))

	merged := s.Merge(context.Background())
	if merged.Len() != 2 {
		t.Fatalf("merged rows = %d, want 2", merged.Len())
	}
	if _, ok := merged.Lookup("Thermal", ""); !ok {
		t.Error("rows from sources after the failure are missing")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want one per failing source:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"source":"broken-db"`) || !strings.Contains(lines[0], `"level":"warn"`) {
		t.Errorf("first warning = %s", lines[0])
	}
	if !strings.Contains(lines[1], `"source":"panicky"`) {
		t.Errorf("second warning = %s", lines[1])
	}
}

func TestMerge_Empty(t *testing.T) {
	if n := NewSources().Merge(context.Background()).Len(); n != 0 {
		t.Errorf("empty merge rows = %d", n)
	}
}

func TestCached_ServesFromStoreUntilRefresh(t *testing.T) {
	calls := 0
	text := "v1"
	src := NewSource("plotinfo", func(context.Context) (*Table, error) {
		calls++
		return seismology(text), nil
	})
	c := Cached(src, cache.NewCache(), time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tbl, err := c.Descriptions(ctx)
		if err != nil {
			t.Fatalf("Descriptions: %v", err)
		}
		if got, _ := tbl.Lookup("Seismology", "Magnitude"); got != "v1" {
			t.Errorf("Lookup = %q, want v1", got)
		}
	}
	if calls != 1 {
		t.Errorf("source calls = %d, want 1", calls)
	}

	text = "v2"
	s := NewSources()
	s.Add(c)
	if err := s.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got, _ := s.Merge(ctx).Lookup("Seismology", "Magnitude"); got != "v2" {
		t.Errorf("after Refresh Lookup = %q, want v2", got)
	}
	if calls != 2 {
		t.Errorf("source calls = %d, want 2", calls)
	}
}

func TestCached_ErrorNotCached(t *testing.T) {
	fail := true
	src := NewSource("flaky", func(context.Context) (*Table, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return seismology("ok"), nil
	})
	c := Cached(src, cache.NewCache(), time.Hour)
	if _, err := c.Descriptions(context.Background()); err == nil {
		t.Fatal("want error from failing source")
	}
	fail = false
	tbl, err := c.Descriptions(context.Background())
	if err != nil || tbl.Len() != 1 {
		t.Errorf("second call = %v, %v; want one row", tbl.Len(), err)
	}
}
