package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"multiplot.GO/core/logging"
)

// Database env prefixes. <PREFIX>_DSN wins over the individual
// <PREFIX>_USER/_PASS/_HOST/_PORT/_DB variables.
const (
	DBGeodiva   = "GEODIVA"
	DBMultiplot = "MULTIPLOT_PG"
	DBPreevents = "PREEVENTS_PG"
)

// NewMySQL opens the MySQL database configured under prefix.
func NewMySQL(prefix string) (*gorm.DB, error) {
	dsn := os.Getenv(prefix + "_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
			os.Getenv(prefix+"_USER"),
			os.Getenv(prefix+"_PASS"),
			GetEnv(prefix+"_HOST", "localhost"),
			GetEnv(prefix+"_PORT", "3306"),
			GetEnv(prefix+"_DB", defaultDBName(prefix)))
	}
	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// NewPostgres opens the PostgreSQL database configured under prefix.
func NewPostgres(prefix string) (*gorm.DB, error) {
	dsn := os.Getenv(prefix + "_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			GetEnv(prefix+"_HOST", "localhost"),
			os.Getenv(prefix+"_USER"),
			os.Getenv(prefix+"_PASS"),
			GetEnv(prefix+"_DB", defaultDBName(prefix)),
			GetEnv(prefix+"_PORT", "5432"),
			GetEnv(prefix+"_SSLMODE", "disable"))
	}
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// defaultDBName maps "PREEVENTS_PG" to "preevents".
func defaultDBName(prefix string) string {
	return strings.ToLower(strings.TrimSuffix(prefix, "_PG"))
}

func gormConfig() *gorm.Config {
	logMode := logger.Warn
	if os.Getenv("GORM_LOG") == "off" {
		logMode = logger.Silent
	} else if GetEnvBool("DEBUG", false) {
		logMode = logger.Info
	}

	zl := logging.Logger().With().Str("component", "gorm").Logger()
	gormLogger := logger.New(
		&zl,
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logMode,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	return &gorm.Config{Logger: gormLogger}
}

// DBConfigured reports whether any connection setting exists for prefix.
// Unconfigured databases are skipped at startup.
func DBConfigured(prefix string) bool {
	return os.Getenv(prefix+"_DSN") != "" || os.Getenv(prefix+"_HOST") != ""
}
