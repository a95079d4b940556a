package config

import "time"

// Storage drivers
const (
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Environment defaults
const (
	DefaultStorageDriver      = StorageDriverSQLite
	DefaultSQLitePath         = "data/jobs.db"
	DefaultDBMaxConns         = 20
	DefaultDBMaxConnIdleTime  = 5 * time.Minute
	DefaultDBMaxConnLifetime  = 30 * time.Minute
	DefaultIndicatorHideDelay = 4 * time.Second // 80 server ticks
	DefaultDeadLetterPath     = "logs/event_deadletter.jsonl"
	DefaultEventMaxRetries    = 3
	DefaultEventRetryDelay    = 200 * time.Millisecond
	DefaultReadCacheSize      = 1024
	DefaultReadCacheTTL       = 30 * time.Second
)

// EnvExampleDBPassword is the placeholder shipped in .env.example
const EnvExampleDBPassword = "change_this_secure_password"

const jobKeyPattern = `^[a-z][a-z0-9_]{0,31}$`
