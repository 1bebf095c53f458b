// Package database plots any data table configured in the multiplot
// database's plotinfo table. Every plotinfo row becomes a plot type.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"multiplot.GO/description"
	"multiplot.GO/generator"
	"multiplot.GO/model/entity"
	"multiplot.GO/model/repository/plotinfo"
)

// RangePadding widens requested date ranges so the client can pan without
// refetching.
const RangePadding = 366 * 24 * time.Hour

// optionalColumns are plotted when the data table has them.
var optionalColumns = []string{"error", "error2", "type"}

// Repository is the plotinfo store.
type Repository interface {
	Labels(ctx context.Context) ([]plotinfo.Label, error)
	FindByTag(ctx context.Context, category, title string) (*entity.PlotInfo, error)
	Descriptions(ctx context.Context) ([]plotinfo.DescriptionRow, error)
	Columns(ctx context.Context, table string) ([]string, error)
	Data(ctx context.Context, q plotinfo.DataQuery) ([]map[string]interface{}, error)
}

// Volcanoes resolves volcano names to database ids.
type Volcanoes interface {
	ID(name string) (int, bool)
}

type plotter struct {
	repo      Repository
	volcanoes Volcanoes
}

// Register adds one plot type per plotinfo row. Labels are read once, now.
func Register(ctx context.Context, reg *generator.Registry, repo Repository, volcanoes Volcanoes) error {
	p := &plotter{repo: repo, volcanoes: volcanoes}
	labels := generator.LabelFunc(func() ([]generator.LabelPair, error) {
		rows, err := repo.Labels(ctx)
		if err != nil {
			return nil, err
		}
		pairs := make([]generator.LabelPair, len(rows))
		for i, r := range rows {
			pairs[i] = generator.LabelPair{Label: r.Title, Category: r.Category}
		}
		return pairs, nil
	})
	// Descriptions come from DescriptionSource, registered ahead of generators.
	return reg.Module("", "").Register(labels, generator.Generator{
		Name: "plot_db_dataset",
		Func: p.plot,
	})
}

// DescriptionSource reads plot and category descriptions from plotinfo.
func DescriptionSource(repo Repository) description.Source {
	return description.NewSource("multiplot-db", func(ctx context.Context) (*description.Table, error) {
		rows, err := repo.Descriptions(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]description.Row, len(rows))
		for i, r := range rows {
			out[i] = description.Row{Category: r.Category, Label: r.Title, Description: r.Description}
		}
		return description.BuildTable(out)
	})
}

type dataArgs struct {
	Types []string `arg:"types"`
}

func (p *plotter) plot(ctx context.Context, q generator.Query) (interface{}, error) {
	tag, err := generator.CurrentTag(ctx)
	if err != nil {
		return nil, err
	}
	var args dataArgs
	if err := q.Decode(&args); err != nil {
		return nil, err
	}
	volcanoID, ok := p.volcanoes.ID(q.Volcano)
	if !ok {
		return nil, fmt.Errorf("%w: unknown volcano %q", generator.ErrNoData, q.Volcano)
	}

	info, err := p.repo.FindByTag(ctx, tag.Category, tag.Label)
	if errors.Is(err, plotinfo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", generator.ErrNoData, err)
	}
	if err != nil {
		return nil, err
	}

	columns, err := p.repo.Columns(ctx, info.DataTable)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	dq := plotinfo.DataQuery{Table: info.DataTable, Value: info.ValueColumn, VolcanoID: volcanoID}
	for _, c := range optionalColumns {
		if present[c] {
			dq.Extra = append(dq.Extra, c)
		}
	}
	if present["type"] {
		dq.Types = args.Types
	}
	dq.Start, dq.End = q.Padded(RangePadding)

	rows, err := p.repo.Data(ctx, dq)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, generator.ErrNoData
	}

	var units, overrides interface{}
	var types []string
	if err := decodeJSON(info.Units, &units); err != nil {
		return nil, fmt.Errorf("plotinfo units: %w", err)
	}
	if err := decodeJSON(info.PlotFormat, &overrides); err != nil {
		return nil, fmt.Errorf("plotinfo plot_format: %w", err)
	}
	if err := decodeJSON(info.Types, &types); err != nil {
		return nil, fmt.Errorf("plotinfo types: %w", err)
	}

	columnsOut := append([]string{"datetime", "value"}, dq.Extra...)
	return Shape(tag.Label, rows, columnsOut, units, overrides, types), nil
}

// Shape builds the plot_db_dataset payload: "labels" and "plotOverrides"
// plus one column-oriented series per record type, or a single series under
// title when types is nil. Types without rows are dropped, along with their
// units.
func Shape(title string, rows []map[string]interface{}, columns []string, units, overrides interface{}, types []string) map[string]interface{} {
	result := map[string]interface{}{
		"labels":        units,
		"plotOverrides": overrides,
	}
	if types == nil {
		result[title] = toColumns(rows, columns)
		return result
	}

	byType := make(map[string][]map[string]interface{})
	for _, r := range rows {
		t := fmt.Sprint(r["type"])
		byType[t] = append(byType[t], r)
	}
	unitMap, _ := units.(map[string]interface{})
	for _, t := range types {
		group, ok := byType[t]
		if !ok {
			delete(unitMap, t)
			continue
		}
		result[t] = toColumns(group, columns)
	}
	return result
}

func toColumns(rows []map[string]interface{}, columns []string) map[string][]interface{} {
	out := make(map[string][]interface{}, len(columns))
	for _, c := range columns {
		col := make([]interface{}, len(rows))
		for i, r := range rows {
			col[i] = r[c]
			if c == "datetime" {
				col[i] = isoTime(r[c])
			}
		}
		out[c] = col
	}
	return out
}

func isoTime(v interface{}) interface{} {
	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02T15:04:05")
	}
	return v
}

func decodeJSON(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
