package preevents

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/go-cmp/cmp"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"multiplot.GO/model/entity"
)

func multiplotDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.PreeventsFlag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&[]entity.PreeventsFlag{
		{DatasetID: 1, VariableID: 10, Hidden: true},
		{DatasetID: 1, VariableID: 11, Overrides: datatypes.JSON(`{"mode":"markers"}`)},
	})
	return db
}

func TestFlags(t *testing.T) {
	repo := NewPreeventsRepository(multiplotDB(t), nil)
	got, err := repo.Flags(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := map[Key]bool{{1, 10}: true, {1, 11}: false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Flags (-want +got):\n%s", diff)
	}
}

func TestOverrides(t *testing.T) {
	repo := NewPreeventsRepository(multiplotDB(t), nil)
	got, err := repo.Overrides(context.Background(), Key{1, 11})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"mode":"markers"}` {
		t.Errorf("Overrides = %s", got)
	}
	got, err = repo.Overrides(context.Background(), Key{2, 20})
	if err != nil || got != nil {
		t.Errorf("missing row: Overrides = %s, %v", got, err)
	}
}

func TestBuildDataSQL(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sql, args, err := buildDataSQL(DataQuery{
		DatastreamIDs: []int{4, 5},
		Start:         &start,
		Filters: []Filter{
			{VariableID: 12, Column: "datavalue", Op: ">=", Value: 2},
			{VariableID: 13, Column: "categoryvalue", Key: "satellite", Op: "!=", Value: "Aqua"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, frag := range []string{
		"filter_0 AS (", "filter_1 AS (",
		`dv0."datavalue" >= ?`, `dv1."categoryvalue"->>? != ?`,
		"ORDER BY d.device_name, b.timestamp",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql missing %q:\n%s", frag, sql)
		}
	}
	if strings.Count(sql, "?") != len(args) {
		t.Errorf("%d placeholders, %d args", strings.Count(sql, "?"), len(args))
	}
	want := []interface{}{[]int{4, 5}, start, 12, 13, 2, "satellite", "Aqua"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args (-want +got):\n%s", diff)
	}
}

func TestBuildDataSQL_RejectsOperator(t *testing.T) {
	_, _, err := buildDataSQL(DataQuery{Filters: []Filter{{Column: "datavalue", Op: "; DROP", Value: 1}}})
	if err == nil {
		t.Error("expected error for unsupported operator")
	}
}
