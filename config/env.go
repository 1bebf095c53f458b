package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"multiplot.GO/core/logging"
)

func LoadEnv() {
	_ = godotenv.Load()
	// If .env is missing, ignore error (env vars can be set by other means)
	logging.Info().Msg("Environment variables loaded (if .env present)")
}

// GetEnv returns the value of key, or def when it is unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvBool reads "true"/"1"/"yes"-style values; anything unparsable is def.
func GetEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// GetEnvDuration reads a time.ParseDuration value.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetEnvFloat reads a float value; anything unparsable or negative is def.
func GetEnvFloat(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}
