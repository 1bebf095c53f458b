package config

import (
	"strings"
	"sync"
	"time"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName   string
	Port      string
	Env       string
	Debug     bool
	LogLevel  string
	LogFormat string

	// DescriptionPolicy is "first" or "last": which source wins when two
	// describe the same plot.
	DescriptionPolicy string
	// DescriptionTTL bounds how long database descriptions are cached.
	DescriptionTTL time.Duration
	// DescriptionRefresh is the cron schedule that reloads them.
	DescriptionRefresh string

	CORSOrigins []string
	// PlotRateLimit caps /getPlot requests per second per client; 0 disables.
	PlotRateLimit float64
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = FromEnv()
	})
}

// FromEnv reads a Config from the environment.
func FromEnv() *Config {
	return &Config{
		AppName:            GetEnv("APP_NAME", "multiplot"),
		Port:               GetEnv("PORT", "8080"),
		Env:                GetEnv("APP_ENV", "production"),
		Debug:              GetEnvBool("DEBUG", false),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		LogFormat:          GetEnv("LOG_FORMAT", "json"),
		DescriptionPolicy:  GetEnv("DESCRIPTION_POLICY", "first"),
		DescriptionTTL:     GetEnvDuration("DESCRIPTION_TTL", 24*time.Hour),
		DescriptionRefresh: GetEnv("DESCRIPTION_REFRESH", "@daily"),
		CORSOrigins:        splitList(GetEnv("CORS_ORIGINS", "*")),
		PlotRateLimit:      GetEnvFloat("PLOT_RATE_LIMIT", 0),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
