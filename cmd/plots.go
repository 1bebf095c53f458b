package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"multiplot.GO/core/app"
	"multiplot.GO/description"
	"multiplot.GO/generator"
)

var (
	listJSON   bool
	runVolcano string
	runFrom    string
	runTo      string
	runArgs    string
)

var plotsListCmd = &cobra.Command{
	Use:   "plots:list",
	Short: "List registered plot types by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return writePlotList(cmd.OutOrStdout(), a.Plots, listJSON)
	},
}

var plotsDescribeCmd = &cobra.Command{
	Use:   "plots:describe [category|label]",
	Short: "Print the merged description of one plot type, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		table := a.Plots.Sources().Merge(cmd.Context())
		if len(args) == 0 {
			return writeDescriptions(cmd.OutOrStdout(), table)
		}
		return writeDescription(cmd.OutOrStdout(), table, args[0])
	},
}

var plotsRunCmd = &cobra.Command{
	Use:   "plots:run <category|label>",
	Short: "Run one generator and print its JSON output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		start, err := generator.ParseDate(runFrom)
		if err != nil {
			return err
		}
		end, err := generator.ParseDate(runTo)
		if err != nil {
			return err
		}
		extra, err := generator.ParseArgs(runArgs)
		if err != nil {
			return err
		}
		out, err := a.Plots.Dispatch(cmd.Context(), args[0], generator.Query{
			Volcano: runVolcano, Start: start, End: end, Args: extra,
		})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func writePlotList(w io.Writer, reg *generator.Registry, asJSON bool) error {
	cats := reg.Categories()
	generator.SortCategories(cats)
	renderers := reg.Renderers()

	if asJSON {
		out := make(map[string][]string, len(cats))
		for _, c := range cats {
			out[c.Name] = c.Labels
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tRENDERER")
	for _, c := range cats {
		for _, label := range c.Labels {
			tag := generator.Tag{Category: c.Name, Label: label}.String()
			r := renderers[tag]
			if r == "" {
				r = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\n", tag, r)
		}
	}
	fmt.Fprintf(tw, "\n%d plot types in %d categories\n", reg.Len(), len(cats))
	return tw.Flush()
}

func writeDescriptions(w io.Writer, table *description.Table) error {
	for _, r := range table.Rows() {
		label := r.Label
		if label == "" {
			label = "(category)"
		}
		if _, err := fmt.Fprintf(w, "%s | %s\n    %s\n", r.Category, label, description.StripMarkup(r.Description)); err != nil {
			return err
		}
	}
	return nil
}

func writeDescription(w io.Writer, table *description.Table, tag string) error {
	t, err := generator.ParseTag(tag)
	if err != nil {
		return err
	}
	text, ok := table.Lookup(t.Category, t.Label)
	if !ok {
		return fmt.Errorf("no description for %s", tag)
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func init() {
	plotsListCmd.Flags().BoolVar(&listJSON, "json", false, "Print {category: [labels]} as JSON")
	plotsRunCmd.Flags().StringVarP(&runVolcano, "volcano", "v", "", "Volcano name")
	plotsRunCmd.Flags().StringVar(&runFrom, "from", "", "Start date")
	plotsRunCmd.Flags().StringVar(&runTo, "to", "", "End date")
	plotsRunCmd.Flags().StringVar(&runArgs, "args", "", "Generator arguments, e.g. types=ground&types=airborne")
	Register(plotsListCmd)
	Register(plotsDescribeCmd)
	Register(plotsRunCmd)
}
