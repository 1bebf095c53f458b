package plot

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"multiplot.GO/api"
	"multiplot.GO/config"
	"multiplot.GO/core/logging"
	"multiplot.GO/description"
	"multiplot.GO/generator"
)

func init() {
	api.RegisterRoute(RegisterPlotRoutes)
	api.RegisterModule(RegisterPlotAPIRoutes)
}

type handler struct {
	d *api.Deps
}

// RegisterPlotRoutes adds the endpoints the multiplot client calls:
// /headers, /getPlot, /getDetails and /getDescriptions.
func RegisterPlotRoutes(e *echo.Echo, d *api.Deps) {
	h := &handler{d: d}
	e.GET("/headers", h.headers)
	e.GET("/getPlot", h.getPlot, rateLimit()...)
	e.GET("/getDetails", h.getDetails)
	e.GET("/getDescriptions", h.getDescriptions)
}

// RegisterPlotAPIRoutes adds the /api/plots listing and the description
// refresh.
func RegisterPlotAPIRoutes(g *echo.Group, d *api.Deps) {
	h := &handler{d: d}
	g.GET("/plots", h.listPlots)
	g.GET("/plots/descriptions", h.listDescriptions)
	g.POST("/descriptions/refresh", h.refreshDescriptions)
}

func rateLimit() []echo.MiddlewareFunc {
	if config.AppConfig == nil || config.AppConfig.PlotRateLimit <= 0 {
		return nil
	}
	limit := config.AppConfig.PlotRateLimit
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     int(limit) + 1,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{middleware.RateLimiter(store)}
}

const headerForwardedPrefix = "X-Forwarded-Prefix"

// prefix is the absolute base URL the client must use when the page
// embedding it lives on another origin.
func prefix(c echo.Context) string {
	req := c.Request()
	origin := c.Scheme() + "://" + req.Host
	reqOrigin := req.Header.Get(echo.HeaderOrigin)
	if reqOrigin == "" || strings.TrimSuffix(reqOrigin, "/") == origin {
		return ""
	}
	p := origin + "/"
	if script := strings.Trim(req.Header.Get(headerForwardedPrefix), "/"); script != "" {
		p += script + "/"
	}
	return p
}

// menu lists categories alphabetically, each as a "---Category---"
// separator followed by [tag, label] entries sorted by label.
func menu(cats []generator.Category) []interface{} {
	generator.SortCategories(cats)
	var out []interface{}
	for _, c := range cats {
		out = append(out, "---"+c.Name+"---")
		for _, label := range c.Labels {
			tag := generator.Tag{Category: c.Name, Label: label}
			out = append(out, [2]string{tag.String(), label})
		}
	}
	return out
}

func (h *handler) headers(c echo.Context) error {
	dataTypes := map[string][]string{}
	if h.d.DataTypes != nil {
		types, err := h.d.DataTypes(c.Request().Context())
		if err != nil {
			logging.Error().Err(err).Msg("load plot data types")
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load plot data types"})
		}
		dataTypes = types
	}
	return c.JSON(http.StatusOK, echo.Map{
		"prefix":        prefix(c),
		"plotTypes":     menu(h.d.Plots.Categories()),
		"jsFuncs":       h.d.Plots.Renderers(),
		"plotDataTypes": dataTypes,
	})
}

func (h *handler) getPlot(c echo.Context) error {
	plotType := c.QueryParam("plotType")
	if plotType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plotType is required"})
	}
	start, err := generator.ParseDate(c.QueryParam("dateFrom"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dateFrom: " + err.Error()})
	}
	end, err := generator.ParseDate(c.QueryParam("dateTo"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dateTo: " + err.Error()})
	}
	args, err := generator.ParseArgs(c.QueryParam("addArgs"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid addArgs: " + err.Error()})
	}

	q := generator.Query{Volcano: c.QueryParam("volcano"), Start: start, End: end, Args: args}
	data, err := h.d.Plots.Dispatch(c.Request().Context(), plotType, q)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, data)
	case errors.Is(err, generator.ErrNotFound), errors.Is(err, generator.ErrNoData):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		logging.Error().Err(err).Str("plotType", plotType).Str("volcano", q.Volcano).Msg("plot generation failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
}

func (h *handler) descriptions(c echo.Context) *description.Table {
	return h.d.Plots.Sources().Merge(c.Request().Context())
}

func (h *handler) getDetails(c echo.Context) error {
	plotType := c.QueryParam("plotType")
	if plotType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "plotType is required"})
	}
	// A malformed tag names no plot type, same as in getPlot.
	tag, err := generator.ParseTag(plotType)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": generator.ErrNotFound.Error() + ": " + err.Error()})
	}
	text, ok := h.descriptions(c).Lookup(tag.Category, tag.Label)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no description for " + tag.String()})
	}
	return c.JSON(http.StatusOK, text)
}

func (h *handler) getDescriptions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.descriptions(c).Nested())
}

// PlotEntry is one plot type of the /api/plots listing.
type PlotEntry struct {
	Tag      string `json:"tag"`
	Label    string `json:"label"`
	Renderer string `json:"renderer,omitempty"`
}

// CategoryEntry groups PlotEntry values under their category.
type CategoryEntry struct {
	Category string      `json:"category"`
	Plots    []PlotEntry `json:"plots"`
}

func (h *handler) listPlots(c echo.Context) error {
	cats := h.d.Plots.Categories()
	generator.SortCategories(cats)
	renderers := h.d.Plots.Renderers()
	out := make([]CategoryEntry, 0, len(cats))
	for _, cat := range cats {
		entry := CategoryEntry{Category: cat.Name, Plots: make([]PlotEntry, 0, len(cat.Labels))}
		for _, label := range cat.Labels {
			tag := generator.Tag{Category: cat.Name, Label: label}.String()
			entry.Plots = append(entry.Plots, PlotEntry{Tag: tag, Label: label, Renderer: renderers[tag]})
		}
		out = append(out, entry)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": out, "total": h.d.Plots.Len()})
}

func (h *handler) listDescriptions(c echo.Context) error {
	rows := h.descriptions(c).Rows()
	if rows == nil {
		rows = []description.Row{}
	}
	return c.JSON(http.StatusOK, echo.Map{"descriptions": rows})
}

func (h *handler) refreshDescriptions(c echo.Context) error {
	if h.d.Refresh == nil {
		return c.JSON(http.StatusNotImplemented, echo.Map{"error": "no cached description sources"})
	}
	start := time.Now()
	if err := h.d.Refresh(c.Request().Context()); err != nil {
		logging.Error().Err(err).Msg("description refresh failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":              "refreshed",
		"request_duration_ms": time.Since(start).Milliseconds(),
	})
}
