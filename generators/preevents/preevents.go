// Package preevents plots PREEVENTS datastreams. Plot types are the
// PREEVENTS display names grouped by discipline, minus the ones hidden in
// multiplot's preevents table.
package preevents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"multiplot.GO/core/logging"
	"multiplot.GO/description"
	"multiplot.GO/generator"
	repo "multiplot.GO/model/repository/preevents"
)

// RangePadding widens requested date ranges, as for database plots.
const RangePadding = 366 * 24 * time.Hour

// Repository is the PREEVENTS store.
type Repository interface {
	Labels(ctx context.Context) ([]repo.Label, error)
	Flags(ctx context.Context) (map[repo.Key]bool, error)
	Overrides(ctx context.Context, k repo.Key) (datatypes.JSON, error)
	Streams(ctx context.Context, discipline, displayName string, volcanoID int, devices []string) ([]repo.Stream, error)
	Data(ctx context.Context, q repo.DataQuery) ([]repo.Point, error)
}

// Volcanoes resolves volcano names to database ids.
type Volcanoes interface {
	ID(name string) (int, bool)
}

type plotter struct {
	repo      Repository
	volcanoes Volcanoes
	logger    zerolog.Logger
}

// Register adds one plot type per visible PREEVENTS variable.
func Register(ctx context.Context, reg *generator.Registry, r Repository, volcanoes Volcanoes) error {
	p := &plotter{repo: r, volcanoes: volcanoes, logger: logging.Logger().With().Str("generator", "preevents").Logger()}
	labels := generator.LabelFunc(func() ([]generator.LabelPair, error) {
		return VisibleLabels(ctx, r)
	})
	return reg.Module("", "").Register(labels, generator.Generator{
		Name: "plot_preevents_dataset",
		Func: p.plot,
	})
}

// VisibleLabels returns the (display name, discipline) of every variable not
// flagged hidden.
func VisibleLabels(ctx context.Context, r Repository) ([]generator.LabelPair, error) {
	flags, err := r.Flags(ctx)
	if err != nil {
		return nil, err
	}
	labels, err := r.Labels(ctx)
	if err != nil {
		return nil, err
	}
	var out []generator.LabelPair
	for _, l := range labels {
		if flags[l.Key()] {
			continue
		}
		out = append(out, generator.LabelPair{Label: l.DisplayName, Category: l.Discipline})
	}
	return out, nil
}

// DescriptionSource describes every PREEVENTS variable with its own and its
// dataset's description.
func DescriptionSource(r Repository) description.Source {
	return description.NewSource("preevents-db", func(ctx context.Context) (*description.Table, error) {
		labels, err := r.Labels(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]description.Row, len(labels))
		for i, l := range labels {
			rows[i] = description.Row{
				Category: l.Discipline,
				Label:    l.DisplayName,
				Description: fmt.Sprintf("<p>%s, %s</p><p>%s</p>",
					l.VariableName, l.VariableDescription, l.DatasetDescription),
			}
		}
		return description.BuildTable(rows)
	})
}

type dataArgs struct {
	Types   []string `arg:"types"`
	Filters []string `arg:"filters"`
}

// Series is the data of one device.
type Series struct {
	Datetime []string  `json:"datetime"`
	Value    []float64 `json:"value"`
	Type     []string  `json:"type"`
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

	streams, err := p.repo.Streams(ctx, tag.Category, tag.Label, volcanoID, args.Types)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", generator.ErrNoData, err)
	}
	if err != nil {
		return nil, err
	}

	dq := repo.DataQuery{}
	for _, s := range streams {
		dq.DatastreamIDs = append(dq.DatastreamIDs, s.DatastreamID)
	}
	dq.Start, dq.End = q.Padded(RangePadding)
	for _, raw := range args.Filters {
		f, err := ParseFilter(raw)
		if err != nil {
			p.logger.Error().Err(err).Str("filter", raw).Msg("Bad filter passed. Not using.")
			continue
		}
		dq.Filters = append(dq.Filters, f)
	}

	points, err := p.repo.Data(ctx, dq)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, generator.ErrNoData
	}

	var overrides interface{}
	raw, err := p.repo.Overrides(ctx, repo.Key{DatasetID: streams[0].DatasetID, VariableID: streams[0].VariableID})
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &overrides); err != nil {
			return nil, fmt.Errorf("preevents overrides: %w", err)
		}
	}

	labels := units(streams)
	result := map[string]interface{}{
		"labels":        labels,
		"plotOverrides": overrides,
	}
	series := group(points)
	for _, s := range streams {
		if data, ok := series[s.Device]; ok {
			result[s.Device] = data
		} else if m, ok := labels.(map[string]string); ok {
			delete(m, s.Device)
		}
	}
	return result, nil
}

// units returns the shared unit of all streams, or a device to unit map
// when they differ. "unitless" is reported as "".
func units(streams []repo.Stream) interface{} {
	byDevice := make(map[string]string, len(streams))
	same := true
	for i, s := range streams {
		u := s.Unit
		if u == "unitless" {
			u = ""
		}
		byDevice[s.Device] = u
		if i > 0 && u != byDevice[streams[0].Device] {
			same = false
		}
	}
	if same && len(streams) > 0 {
		return byDevice[streams[0].Device]
	}
	return byDevice
}

func group(points []repo.Point) map[string]*Series {
	out := make(map[string]*Series)
	for _, pt := range points {
		s, ok := out[pt.Device]
		if !ok {
			s = &Series{}
			out[pt.Device] = s
		}
		s.Datetime = append(s.Datetime, pt.Timestamp.Format("2006-01-02T15:04:05"))
		s.Value = append(s.Value, pt.Value)
		s.Type = append(s.Type, pt.Device)
	}
	return out
}
