package main

import (
	"github.com/osse101/PickariaJobs_Go/internal/config"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// initLogger initializes the logger from the loaded configuration
func initLogger(cfg *config.Config) {
	logger.InitLogger(cfg.LoggerConfig())

	for _, warning := range cfg.Warnings() {
		logger.Warn(warning)
	}
}
