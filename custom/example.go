// Package custom shows how site-specific code hooks into the server: a
// GraphQL extension, a CLI command, a cron job and an HTTP route, all
// registered from init().
package custom

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"multiplot.GO/api"
	"multiplot.GO/cmd"
	"multiplot.GO/core/logging"
	"multiplot.GO/cron"
	"multiplot.GO/generators"
	gqlregistry "multiplot.GO/graphql/registry"
)

var started = time.Now()

func init() {
	// GraphQL extension: query { _extension(name: "uptime") }
	gqlregistry.Register("uptime", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"seconds": int64(time.Since(started).Seconds())}, nil
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "generators:modules",
		Short: "List the generator modules in registration order",
		Run: func(c *cobra.Command, args []string) {
			for _, name := range generators.Names() {
				fmt.Fprintln(c.OutOrStdout(), name)
			}
		},
	})

	// Cron job
	cron.Register("heartbeat", "@every 1h", func(ctx context.Context) error {
		logging.Info().Int("goroutines", runtime.NumGoroutine()).Msg("heartbeat")
		return nil
	})

	// HTTP route
	api.RegisterRoute(func(e *echo.Echo, d *api.Deps) {
		e.GET("/health", func(c echo.Context) error {
			plots := 0
			if d.Plots != nil {
				plots = d.Plots.Len()
			}
			return c.JSON(http.StatusOK, echo.Map{"status": "ok", "plots": plots})
		})
	})
}
