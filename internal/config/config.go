package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// Config holds the application configuration
type Config struct {
	// Logging
	LogLevel    string
	LogFormat   string
	LogDir      string
	ServiceName string
	Version     string
	Environment string

	// Storage
	StorageDriver     string
	SQLitePath        string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Jobs
	JobsConfigPath     string // Empty means the built-in catalog
	IndicatorHideDelay time.Duration
	ReadCacheSize      int
	ReadCacheTTL       time.Duration

	// Events
	DeadLetterPath  string
	EventMaxRetries int
	EventRetryDelay time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", logger.LogLevelInfo),
		LogFormat:   getEnv("LOG_FORMAT", logger.LogFormatText),
		LogDir:      getEnv("LOG_DIR", "logs"),
		ServiceName: getEnv("SERVICE_NAME", logger.DefaultServiceName),
		Version:     getEnv("VERSION", logger.DefaultVersion),
		Environment: getEnv("ENVIRONMENT", logger.EnvironmentDev),

		StorageDriver:     getEnv("STORAGE_DRIVER", DefaultStorageDriver),
		SQLitePath:        getEnv("SQLITE_PATH", DefaultSQLitePath),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "pickaria_jobs"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		JobsConfigPath:     getEnv("JOBS_CONFIG_PATH", ""),
		IndicatorHideDelay: getEnvAsDuration("INDICATOR_HIDE_DELAY", DefaultIndicatorHideDelay),
		ReadCacheSize:      getEnvAsInt("READ_CACHE_SIZE", DefaultReadCacheSize),
		ReadCacheTTL:       getEnvAsDuration("READ_CACHE_TTL", DefaultReadCacheTTL),

		DeadLetterPath:  getEnv("DEAD_LETTER_PATH", DefaultDeadLetterPath),
		EventMaxRetries: getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay: getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to defaultValue when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a time.ParseDuration variable, falling back to defaultValue when unset or invalid
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// LoggerConfig maps the logging fields onto a logger.Config
func (c *Config) LoggerConfig() logger.Config {
	return logger.NewConfig(c.LogLevel, c.LogFormat, c.ServiceName, c.Version, c.Environment, c.Environment == logger.EnvironmentDev)
}
