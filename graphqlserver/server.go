package graphqlserver

import (
	"context"

	"github.com/goccy/go-json"
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"multiplot.GO/api"
	"multiplot.GO/generator"
	"multiplot.GO/graphql"
	gqlmodels "multiplot.GO/graphql/models"
	"multiplot.GO/graphql/registry"
)

// QueryResolver is the graphql-go root resolver; its methods implement the
// Query fields.
type QueryResolver struct {
	d *api.Deps
}

func (r *QueryResolver) dataTypes(ctx context.Context) (map[string][]string, error) {
	if r.d.DataTypes == nil {
		return map[string][]string{}, nil
	}
	return r.d.DataTypes(ctx)
}

func (r *QueryResolver) plotType(ctx context.Context, tag generator.Tag, renderers map[string]string, types map[string][]string) *gqlmodels.PlotType {
	key := tag.String()
	pt := &gqlmodels.PlotType{
		Tag:       key,
		Category:  tag.Category,
		Label:     tag.Label,
		Renderer:  renderers[key],
		DataTypes: types[key],
	}
	if pt.DataTypes == nil {
		pt.DataTypes = []string{}
	}
	if text, ok := graphql.Descriptions(ctx, r.d.Plots.Sources()).Lookup(tag.Category, tag.Label); ok {
		pt.Description = &text
	}
	return pt
}

func (r *QueryResolver) Categories(ctx context.Context) ([]*gqlmodels.PlotCategory, error) {
	types, err := r.dataTypes(ctx)
	if err != nil {
		return nil, err
	}
	renderers := r.d.Plots.Renderers()
	table := graphql.Descriptions(ctx, r.d.Plots.Sources())

	cats := r.d.Plots.Categories()
	generator.SortCategories(cats)
	out := make([]*gqlmodels.PlotCategory, 0, len(cats))
	for _, c := range cats {
		pc := &gqlmodels.PlotCategory{Name: c.Name, PlotTypes: make([]*gqlmodels.PlotType, 0, len(c.Labels))}
		if text, ok := table.Lookup(c.Name, ""); ok {
			pc.Description = &text
		}
		for _, label := range c.Labels {
			pc.PlotTypes = append(pc.PlotTypes, r.plotType(ctx, generator.Tag{Category: c.Name, Label: label}, renderers, types))
		}
		out = append(out, pc)
	}
	return out, nil
}

// PlotTypeArgs matches the plotType query arguments.
type PlotTypeArgs struct {
	Tag string
}

func (r *QueryResolver) PlotType(ctx context.Context, args PlotTypeArgs) (*gqlmodels.PlotType, error) {
	tag, err := generator.ParseTag(args.Tag)
	if err != nil {
		return nil, err
	}
	if _, ok := r.d.Plots.Lookup(tag); !ok {
		return nil, nil
	}
	types, err := r.dataTypes(ctx)
	if err != nil {
		return nil, err
	}
	return r.plotType(ctx, tag, r.d.Plots.Renderers(), types), nil
}

// DescriptionsArgs matches the descriptions query arguments.
type DescriptionsArgs struct {
	Category *string
}

func (r *QueryResolver) Descriptions(ctx context.Context, args DescriptionsArgs) ([]*gqlmodels.Description, error) {
	rows := graphql.Descriptions(ctx, r.d.Plots.Sources()).Rows()
	out := make([]*gqlmodels.Description, 0, len(rows))
	for _, row := range rows {
		if args.Category != nil && row.Category != *args.Category {
			continue
		}
		out = append(out, &gqlmodels.Description{Category: row.Category, Label: row.Label, Text: row.Description})
	}
	return out, nil
}

func (r *QueryResolver) Volcanoes(ctx context.Context) ([]*gqlmodels.Volcano, error) {
	if r.d.Volcanoes == nil {
		return []*gqlmodels.Volcano{}, nil
	}
	views := r.d.Volcanoes.Views()
	out := make([]*gqlmodels.Volcano, len(views))
	for i, v := range views {
		gv := &gqlmodels.Volcano{
			Name:      v.Name,
			Latitude:  v.Latitude,
			Longitude: v.Longitude,
			Zoom:      int32(v.Zoom),
			Children:  make([]*gqlmodels.VolcanoChild, len(v.Children)),
		}
		if v.ID != 0 {
			id := int32(v.ID)
			gv.ID = &id
		}
		for j, c := range v.Children {
			gv.Children[j] = &gqlmodels.VolcanoChild{ID: int32(c.ID), Name: c.Name}
		}
		out[i] = gv
	}
	return out, nil
}

// ExtensionArgs for _extension(name, args).
type ExtensionArgs struct {
	Name string
	Args *string
}

func (r *QueryResolver) Extension(ctx context.Context, args ExtensionArgs) (*string, error) {
	var m map[string]interface{}
	if args.Args != nil && *args.Args != "" {
		if err := json.Unmarshal([]byte(*args.Args), &m); err != nil {
			return nil, err
		}
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	out, err := registry.Resolve(ctx, args.Name, m)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// NewSchema parses the schema and returns a graphql-go Schema.
func NewSchema(d *api.Deps) (*gql.Schema, error) {
	return gql.ParseSchema(graphql.Schema(), &QueryResolver{d: d}, gql.UseFieldResolvers())
}

// Handler returns an http.Handler for GraphQL (relay format).
func Handler(schema *gql.Schema) *relay.Handler {
	return &relay.Handler{Schema: schema}
}
