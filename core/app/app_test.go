package app

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"multiplot.GO/config"
	"multiplot.GO/core/cache"
	"multiplot.GO/cron"
	"multiplot.GO/description"
	"multiplot.GO/generator"
)

type countingSource struct {
	refreshed int
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Descriptions(context.Context) (*description.Table, error) {
	return description.MustBuildTable(nil), nil
}

func (s *countingSource) Refresh(context.Context) error {
	s.refreshed++
	return nil
}

func TestRegisterJobs_RefreshesSources(t *testing.T) {
	src := &countingSource{}
	sources := description.NewSources()
	sources.Add(src)
	a := &App{
		Config: &config.Config{DescriptionRefresh: "@daily"},
		Plots:  generator.NewRegistry(sources),
		Cache:  cache.NewCache(),
	}

	a.RegisterJobs()
	defer cron.Unregister(JobRefreshDescriptions)

	job, ok := cron.Jobs()[JobRefreshDescriptions]
	if !ok || job.Schedule != "@daily" {
		t.Fatalf("job = %+v, %v", job, ok)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if src.refreshed != 1 {
		t.Errorf("refreshed %d times, want 1", src.refreshed)
	}
}

func TestDataTypes_WithoutDatabase(t *testing.T) {
	a := &App{}
	types, err := a.DataTypes(context.Background())
	if err != nil || len(types) != 0 {
		t.Errorf("DataTypes = %v, %v", types, err)
	}
}

func TestDeps(t *testing.T) {
	a := &App{Plots: generator.NewRegistry(nil)}
	d := a.Deps()
	if d.Plots != a.Plots || d.DataTypes == nil || d.Refresh == nil {
		t.Errorf("Deps = %+v", d)
	}
}

// refusingConnector is a database that never accepts a connection.
type refusingConnector struct{}

func (refusingConnector) Connect(context.Context) (driver.Conn, error) {
	return nil, errors.New("connection refused")
}

func (refusingConnector) Driver() driver.Driver { return refusingDriver{} }

type refusingDriver struct{}

func (refusingDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("connection refused")
}

func TestOpen_ClosesOnFailedPing(t *testing.T) {
	t.Setenv("BROKEN_DB_DSN", "unused")
	sqldb := sql.OpenDB(refusingConnector{})
	connect := func(string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{Conn: sqldb}), &gorm.Config{DisableAutomaticPing: true})
	}

	a := &App{}
	_, err := a.open("BROKEN_DB", connect)
	if err == nil || !strings.Contains(err.Error(), "ping BROKEN_DB") {
		t.Fatalf("err = %v, want ping failure", err)
	}
	if len(a.dbs) != 0 {
		t.Errorf("dbs = %d, want none tracked", len(a.dbs))
	}
	if err := sqldb.Ping(); err == nil || !strings.Contains(err.Error(), "database is closed") {
		t.Errorf("Ping after failed open = %v, want closed database", err)
	}
}

func TestOpen_SkipsUnconfigured(t *testing.T) {
	a := &App{}
	db, err := a.open("UNSET_TEST_DB", func(string) (*gorm.DB, error) {
		t.Fatal("connect called for an unconfigured database")
		return nil, nil
	})
	if db != nil || err != nil {
		t.Errorf("open = %v, %v; want nil, nil", db, err)
	}
}
