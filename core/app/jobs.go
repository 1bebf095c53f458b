package app

import (
	"multiplot.GO/cron"
)

// JobRefreshDescriptions reloads cached database descriptions.
const JobRefreshDescriptions = "descriptions:refresh"

// RegisterJobs adds the application's cron jobs. Call once, before
// cron.StartCron.
func (a *App) RegisterJobs() {
	cron.Register(JobRefreshDescriptions, a.Config.DescriptionRefresh, a.RefreshDescriptions)
}
