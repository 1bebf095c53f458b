// Package app wires configuration, databases, caches and the plot registry
// into one App shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"multiplot.GO/api"
	"multiplot.GO/config"
	"multiplot.GO/core/cache"
	"multiplot.GO/core/logging"
	"multiplot.GO/description"
	"multiplot.GO/generator"
	"multiplot.GO/generators"
	"multiplot.GO/model/repository/plotinfo"
	"multiplot.GO/model/repository/preevents"
	volcanoRepo "multiplot.GO/model/repository/volcano"
	"multiplot.GO/service/volcano"
)

// App is a started application. Plots is frozen.
type App struct {
	Config    *config.Config
	Plots     *generator.Registry
	Volcanoes *volcano.VolcanoService
	PlotInfo  *plotinfo.PlotInfoRepository
	Cache     cache.Store

	dbs []*gorm.DB
}

// New loads configuration, opens every configured database and registers
// all generators.
func New(ctx context.Context) (*App, error) {
	config.LoadAppConfig()
	cfg := config.AppConfig
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	a := &App{Config: cfg}

	config.InitRedis()
	logging.Info().Msg(config.PingRedis())
	if config.RedisClient != nil {
		a.Cache = cache.NewRedisStore(config.RedisClient, cfg.AppName)
	} else {
		a.Cache = cache.GetInstance()
	}

	geodiva, err := a.open(config.DBGeodiva, config.NewMySQL)
	if err != nil {
		return nil, err
	}
	multiplot, err := a.open(config.DBMultiplot, config.NewPostgres)
	if err != nil {
		a.Close()
		return nil, err
	}
	pre, err := a.open(config.DBPreevents, config.NewPostgres)
	if err != nil {
		a.Close()
		return nil, err
	}

	if geodiva != nil {
		a.Volcanoes = volcano.NewVolcanoService(volcanoRepo.NewVolcanoRepository(geodiva))
		if err := a.Volcanoes.Load(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("load volcanoes: %w", err)
		}
	} else {
		a.Volcanoes = volcano.NewVolcanoService(nil)
	}

	policy, err := description.ParsePolicy(cfg.DescriptionPolicy)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Plots = generator.NewRegistry(description.NewSources(description.WithPolicy(policy)))

	deps := generators.Deps{
		Volcanoes: a.Volcanoes,
		Cache:     a.Cache,
		CacheTTL:  cfg.DescriptionTTL,
	}
	if multiplot != nil {
		a.PlotInfo = plotinfo.NewPlotInfoRepository(multiplot)
		deps.Plots = a.PlotInfo
		if pre != nil {
			deps.Preevents = preevents.NewPreeventsRepository(multiplot, pre)
		}
	}
	if err := generators.Register(ctx, a.Plots, deps); err != nil {
		a.Close()
		return nil, err
	}
	a.Plots.Freeze()
	logging.Info().Int("plots", a.Plots.Len()).Msg("plot registry ready")
	return a, nil
}

// open connects to the database under prefix when it is configured.
func (a *App) open(prefix string, connect func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	if !config.DBConfigured(prefix) {
		logging.Warn().Str("database", prefix).Msg("database not configured, skipping")
		return nil, nil
	}
	db, err := connect(prefix)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", prefix, err)
	}
	sqldb, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", prefix, err)
	}
	if err := sqldb.Ping(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping %s: %w", prefix, err)
	}
	logging.Info().Str("database", prefix).Msg("database connection successful")
	a.dbs = append(a.dbs, db)
	return db, nil
}

// RefreshDescriptions reloads every cached description source.
func (a *App) RefreshDescriptions(ctx context.Context) error {
	return a.Plots.Sources().Refresh(ctx)
}

// DataTypes returns the data types of each database plot, keyed by tag.
func (a *App) DataTypes(ctx context.Context) (map[string][]string, error) {
	if a.PlotInfo == nil {
		return map[string][]string{}, nil
	}
	return a.PlotInfo.DataTypes(ctx)
}

// Deps returns the dependencies handed to HTTP route modules.
func (a *App) Deps() *api.Deps {
	return &api.Deps{
		Plots:     a.Plots,
		Volcanoes: a.Volcanoes,
		DataTypes: a.DataTypes,
		Refresh:   a.RefreshDescriptions,
	}
}

// Close releases database connections.
func (a *App) Close() {
	for _, db := range a.dbs {
		if sqldb, err := db.DB(); err == nil {
			_ = sqldb.Close()
		}
	}
	a.dbs = nil
}
