package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"multiplot.GO/core/app"
	"multiplot.GO/core/logging"
	"multiplot.GO/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		a.RegisterJobs()

		if jobName != "" {
			name := strings.ToLower(jobName)
			j, ok := cron.Jobs()[name]
			if !ok {
				return fmt.Errorf("unknown job %q (known: %s)", jobName, strings.Join(cron.Names(), ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Running cron job: %s\n", name)
			return cron.RunJob(ctx, name, j.Run)
		}

		c, err := cron.StartCron(ctx)
		if err != nil {
			return err
		}
		logging.Info().Strs("jobs", cron.Names()).Msg("cron scheduler started, press Ctrl+C to exit")
		<-ctx.Done()
		<-c.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	Register(cronStartCmd)
}
