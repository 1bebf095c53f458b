package batch

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"multiplot.GO/api"
	"multiplot.GO/core/logging"
	"multiplot.GO/generator"
)

const (
	// MaxRequests bounds the plots fetched by one batch call.
	MaxRequests = 20
	// concurrency bounds generators running at once for one batch.
	concurrency = 4
)

func init() {
	api.RegisterModule(RegisterBatchRoutes)
}

// PlotRequest mirrors the /getPlot query parameters.
type PlotRequest struct {
	PlotType string `json:"plotType"`
	Volcano  string `json:"volcano"`
	DateFrom string `json:"dateFrom"`
	DateTo   string `json:"dateTo"`
	AddArgs  string `json:"addArgs"`
}

// PlotResult is the outcome of one PlotRequest. Status carries the HTTP
// status /getPlot would have answered with.
type PlotResult struct {
	PlotType string      `json:"plotType"`
	Status   int         `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// RegisterBatchRoutes adds POST /api/plots/batch, which runs several plot
// generators concurrently. Results keep the request order.
func RegisterBatchRoutes(apiGroup *echo.Group, d *api.Deps) {
	apiGroup.POST("/plots/batch", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Requests []PlotRequest `json:"requests"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Requests) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "requests array is required and must not be empty"})
		}
		if len(body.Requests) > MaxRequests {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "at most " + strconv.Itoa(MaxRequests) + " requests per batch"})
		}

		results := make([]PlotResult, len(body.Requests))
		eg, ctx := errgroup.WithContext(c.Request().Context())
		eg.SetLimit(concurrency)
		for i, req := range body.Requests {
			eg.Go(func() error {
				results[i] = run(ctx, d.Plots, req)
				return nil
			})
		}
		_ = eg.Wait()

		duration := time.Since(start).Milliseconds()
		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"results":             results,
			"request_duration_ms": duration,
		})
	})
}

func run(ctx context.Context, plots *generator.Registry, req PlotRequest) PlotResult {
	res := PlotResult{PlotType: req.PlotType}
	bad := func(err error) PlotResult {
		res.Status, res.Error = http.StatusBadRequest, err.Error()
		return res
	}
	start, err := generator.ParseDate(req.DateFrom)
	if err != nil {
		return bad(err)
	}
	end, err := generator.ParseDate(req.DateTo)
	if err != nil {
		return bad(err)
	}
	args, err := generator.ParseArgs(req.AddArgs)
	if err != nil {
		return bad(err)
	}

	data, err := plots.Dispatch(ctx, req.PlotType, generator.Query{Volcano: req.Volcano, Start: start, End: end, Args: args})
	switch {
	case err == nil:
		res.Status, res.Data = http.StatusOK, data
	case errors.Is(err, generator.ErrNotFound), errors.Is(err, generator.ErrNoData):
		res.Status, res.Error = http.StatusNotFound, err.Error()
	default:
		logging.Error().Err(err).Str("plotType", req.PlotType).Str("volcano", req.Volcano).Bool("batch", true).Msg("plot generation failed")
		res.Status, res.Error = http.StatusInternalServerError, err.Error()
	}
	return res
}
