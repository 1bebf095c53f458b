//go:build !cli

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"multiplot.GO/api"
	_ "multiplot.GO/api/batch"
	graphqlApi "multiplot.GO/api/graphql"
	_ "multiplot.GO/api/plot"
	_ "multiplot.GO/api/volcano"
	"multiplot.GO/config"
	"multiplot.GO/core/app"
	"multiplot.GO/core/auth"
	"multiplot.GO/core/logging"
	"multiplot.GO/cron"
	_ "multiplot.GO/custom"
)

func main() {
	config.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: a.Config.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			logging.Debug().Str("path", c.Path()).Int64("duration_ms", duration).Msg("request")
			return err
		}
	})

	deps := a.Deps()
	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, deps)
	api.ApplyRoutes(e, deps)
	graphqlApi.RegisterGraphQLRoutes(e, deps)

	a.RegisterJobs()
	c, err := cron.StartCron(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("cron")
	}
	defer c.Stop()

	figure.NewFigure("Multiplot", "slant", true).Print()
	fmt.Printf("%d plot types registered\n", a.Plots.Len())

	go func() {
		logging.Info().Str("port", a.Config.Port).Msg("server running")
		if err := e.Start(":" + a.Config.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("shutdown")
	}
}
