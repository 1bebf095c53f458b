package volcano

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"multiplot.GO/api"
)

func init() {
	api.RegisterRoute(RegisterVolcanoRoutes)
}

// RegisterVolcanoRoutes adds GET /volcanoes, the volcano selector list
// ordered east to west.
func RegisterVolcanoRoutes(e *echo.Echo, d *api.Deps) {
	e.GET("/volcanoes", func(c echo.Context) error {
		if d.Volcanoes == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "volcano list not loaded"})
		}
		return c.JSON(http.StatusOK, echo.Map{"volcanoes": d.Volcanoes.Views()})
	})
}
