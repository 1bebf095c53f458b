// Package models holds the GraphQL object types. Fields resolve by name
// (graphql-go UseFieldResolvers).
package models

type PlotCategory struct {
	Name        string
	Description *string
	PlotTypes   []*PlotType
}

type PlotType struct {
	Tag         string
	Category    string
	Label       string
	Renderer    string
	Description *string
	DataTypes   []string
}

type Description struct {
	Category string
	Label    string
	Text     string
}

type Volcano struct {
	Name      string
	ID        *int32
	Latitude  float64
	Longitude float64
	Zoom      int32
	Children  []*VolcanoChild
}

type VolcanoChild struct {
	ID   int32
	Name string
}
