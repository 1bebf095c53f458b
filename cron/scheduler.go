package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"multiplot.GO/core/logging"
)

// StartCron schedules every registered job and starts the scheduler. Jobs
// run with ctx; a job error is logged and the job stays scheduled.
func StartCron(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	for name, j := range Jobs() {
		run := j.Run
		if _, err := c.AddFunc(j.Schedule, func() { RunJob(ctx, name, run) }); err != nil {
			return nil, fmt.Errorf("register job %s: %w", name, err)
		}
	}
	c.Start()
	return c, nil
}

// RunJob runs one job, logging its outcome and duration.
func RunJob(ctx context.Context, name string, run func(context.Context) error) error {
	start := time.Now()
	err := run(ctx)
	ev := logging.Info()
	if err != nil {
		ev = logging.Error().Err(err)
	}
	ev.Str("job", name).Dur("duration", time.Since(start)).Msg("cron job finished")
	return err
}
