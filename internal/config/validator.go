package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate checks the settings the selected storage driver depends on
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH must be set when STORAGE_DRIVER=%s", StorageDriverSQLite)
		}
	case StorageDriverPostgres:
		var missing []string
		for name, value := range map[string]string{
			"DB_USER": c.DBUser,
			"DB_HOST": c.DBHost,
			"DB_PORT": c.DBPort,
			"DB_NAME": c.DBName,
		} {
			if value == "" {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: expected %s, %s or %s",
			c.StorageDriver, StorageDriverSQLite, StorageDriverPostgres, StorageDriverMemory)
	}

	if c.IndicatorHideDelay <= 0 {
		return fmt.Errorf("INDICATOR_HIDE_DELAY must be positive, got %s", c.IndicatorHideDelay)
	}
	if c.EventMaxRetries < 0 {
		return fmt.Errorf("EVENT_MAX_RETRIES must not be negative, got %d", c.EventMaxRetries)
	}
	return nil
}

// Warnings reports non-critical issues such as example credentials left in place
func (c *Config) Warnings() []string {
	var warnings []string

	if c.StorageDriver == StorageDriverPostgres && c.DBPassword == EnvExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}
	if c.StorageDriver == StorageDriverMemory {
		warnings = append(warnings, "STORAGE_DRIVER=memory keeps job records in process memory only - nothing is persisted")
	}

	return warnings
}
