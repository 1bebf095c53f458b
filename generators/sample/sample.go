/*
Package sample registers example plots covering every way of declaring a
generator.

DESCRIPTION:
------------
Example datasets demonstrating the plot plugin system.

Each generator module gets a Registrar from Registry.Module with its default
category and this package documentation, then registers its functions:

  - a single label in the module category, described by its Doc
  - a label with an explicit description string
  - several labels sharing one function, which reads the requested label
    from generator.CurrentTag
  - labels with their own categories
  - several labels described by a map
  - labels and descriptions computed at startup

Generators return the generic {date, y, ylabel} shape unless Generator.Name
names a client renderer that understands their output.
*/
package sample

import (
	"context"
	"time"

	"multiplot.GO/description"
	"multiplot.GO/generator"
)

// Category is the default category of this module.
const Category = "Example Category"

// Doc is this package's documentation, used as the category description.
const Doc = `DESCRIPTION:
------------
Example datasets demonstrating the plot plugin system.`

// Generic is the payload understood by the generic renderer.
type Generic struct {
	Date   []string  `json:"date"`
	Y      []float64 `json:"y"`
	YLabel string    `json:"ylabel,omitempty"`
}

// Register adds the example plots.
func Register(reg *generator.Registry) error {
	m := reg.Module(Category, Doc)

	steps := []func() error{
		func() error {
			return m.Register("Simple Example", generator.Generator{
				Name: "basic_plot",
				Doc: `This is a basic example using a single label and the module category.

This text is shown as the description in the GUI.`,
				Func: basicPlot,
			})
		},
		func() error {
			return m.Register("String Description Example", generator.Generator{
				Name: "string_desc_plot",
				Doc:  "Ignored in favour of the description option.",
				Func: basicPlot,
			}, generator.Description("A simple description for this dataset."))
		},
		func() error {
			return m.Register([]string{"Type A", "Type B"}, generator.Generator{
				Name: "multi_plot",
				Doc:  "DESCRIPTION: One function serving several labels in the module category.",
				Func: perLabel,
			})
		},
		func() error {
			return m.Register([]generator.LabelPair{
				{Label: "Gas Flux", Category: "Remote Sensing"},
				{Label: "SO2", Category: "Gas Data"},
			}, generator.Generator{
				Name: "multi_cat_plot",
				Func: perLabel,
			})
		},
		func() error {
			return m.Register([]string{"Type C", "Type D"}, generator.Generator{
				Name: "multi_desc_dict",
				Doc:  "Ignored since descriptions are supplied by map.",
				Func: perLabel,
			}, generator.Descriptions(map[string]string{
				"Type C": "First dataset description.",
				"Type D": "Second dataset description.",
			}))
		},
		func() error {
			return m.Register(generator.LabelFunc(dynamicLabels), generator.Generator{
				Name: "dynamic_func",
				Func: perLabel,
			}, generator.DescriptionSource(description.NewSource("sample-dynamic", dynamicDescriptions)))
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func basicPlot(context.Context, generator.Query) (any, error) {
	return Generic{
		Date:   []string{"2020-01-01", "2020-01-02"},
		Y:      []float64{10, 15},
		YLabel: "Event Count",
	}, nil
}

// perLabel draws a daily series over the requested range whose level
// depends on the requested label.
func perLabel(ctx context.Context, q generator.Query) (any, error) {
	tag, err := generator.CurrentTag(ctx)
	if err != nil {
		return nil, err
	}
	end := time.Date(2020, 1, 10, 0, 0, 0, 0, time.UTC)
	if q.End != nil {
		end = *q.End
	}
	start := end.AddDate(0, 0, -9)
	if q.Start != nil && q.Start.Before(end) {
		start = *q.Start
	}

	level := float64(len(tag.Label))
	out := Generic{YLabel: tag.Label}
	for d := start; !d.After(end) && len(out.Date) < 366; d = d.AddDate(0, 0, 1) {
		out.Date = append(out.Date, d.Format("2006-01-02"))
		out.Y = append(out.Y, level)
	}
	return out, nil
}

func dynamicLabels() ([]generator.LabelPair, error) {
	return []generator.LabelPair{
		{Label: "Dynamic 1", Category: "Sample Category"},
		{Label: "Dynamic 2", Category: "Sample Category"},
	}, nil
}

func dynamicDescriptions(context.Context) (*description.Table, error) {
	return description.BuildTable([]description.Row{
		{Category: "Sample Category", Label: "Dynamic 1", Description: "This is the first dynamically described dataset."},
		{Category: "Sample Category", Label: "Dynamic 2", Description: "This is the second one."},
	})
}
