// Standalone GraphQL server. Run with: go run ./cmd/graphql
package main

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"multiplot.GO/api"
	graphqlApi "multiplot.GO/api/graphql"
	"multiplot.GO/config"
	"multiplot.GO/core/app"
	"multiplot.GO/core/logging"
	_ "multiplot.GO/custom"
)

func main() {
	config.LoadEnv()

	a, err := app.New(context.Background())
	if err != nil {
		logging.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.Recover())
	deps := a.Deps()
	graphqlApi.RegisterGraphQLRoutes(e, deps)
	api.ApplyRoutes(e, deps)

	// ASCII banner on start (random font each run)
	gqlFonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles", "cosmic"}
	fig := figure.NewFigure("Multiplot GQL", gqlFonts[rand.Intn(len(gqlFonts))], true)
	fig.Print()
	fmt.Println("Standalone GraphQL server")

	port := a.Config.Port
	logging.Info().Msgf("GraphQL at http://localhost:%s/graphql  Playground at http://localhost:%s/playground", port, port)
	if err := e.Start(":" + port); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
