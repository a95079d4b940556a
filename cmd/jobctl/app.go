package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PickariaJobs_Go/internal/config"
	"github.com/osse101/PickariaJobs_Go/internal/database"
	"github.com/osse101/PickariaJobs_Go/internal/database/memory"
	"github.com/osse101/PickariaJobs_Go/internal/database/postgres"
	"github.com/osse101/PickariaJobs_Go/internal/database/sqlite"
	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/indicator"
	"github.com/osse101/PickariaJobs_Go/internal/job"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
	"github.com/osse101/PickariaJobs_Go/internal/metrics"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// App holds the wired services for one jobctl invocation
type App struct {
	ctx     context.Context
	cfg     *config.Config
	catalog *domain.JobCatalog
	jobs    job.Service

	repo      repository.Job
	sqlDB     *sql.DB
	pool      *pgxpool.Pool
	publisher *event.ResilientPublisher
	tracker   *indicator.Tracker
}

// NewApp opens the configured store, applies migrations and builds the job service
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{ctx: ctx, cfg: cfg}

	catalog, err := config.LoadCatalog(cfg.JobsConfigPath)
	if err != nil {
		return nil, err
	}
	app.catalog = catalog

	if err := app.openStore(ctx); err != nil {
		app.Close()
		return nil, err
	}

	bus := event.NewMemoryBus()
	metrics.NewEventMetricsCollector().Register(bus)

	publisher, err := event.NewResilientPublisher(bus, cfg.EventMaxRetries, cfg.EventRetryDelay, cfg.DeadLetterPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create event publisher: %w", err)
	}
	app.publisher = publisher

	app.tracker = indicator.NewTracker(indicator.LogFactory{Logger: slog.Default()}, nil, cfg.IndicatorHideDelay)

	app.jobs = job.NewService(app.repo, catalog, app.tracker, publisher, readCacheOptions(cfg)...)

	logger.FromContext(ctx).Debug("Job service ready",
		"storage", cfg.StorageDriver,
		"jobs", len(catalog.Jobs),
		"max_level", catalog.MaxLevel,
		"cooldown_hours", catalog.CooldownHours)
	return app, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.cfg.StorageDriver {
	case config.StorageDriverSQLite:
		db, err := database.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.sqlDB = db
		if err := database.Migrate(ctx, db, database.DriverSQLite); err != nil {
			return err
		}
		a.repo = sqlite.NewJobRepository(db)

	case config.StorageDriverPostgres:
		pool, err := database.NewPool(a.cfg.GetDBConnString(), a.cfg.DBMaxConns, a.cfg.DBMaxConnIdleTime, a.cfg.DBMaxConnLifetime)
		if err != nil {
			return err
		}
		a.pool = pool
		if err := database.MigratePool(ctx, pool); err != nil {
			return err
		}
		a.repo = postgres.NewJobRepository(pool)

	case config.StorageDriverMemory:
		a.repo = memory.NewJobRepository()

	default:
		return fmt.Errorf("unsupported storage driver %q", a.cfg.StorageDriver)
	}
	return nil
}

// Close flushes pending events and releases the store
func (a *App) Close() {
	if a.tracker != nil {
		a.tracker.Shutdown()
	}
	if a.publisher != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.publisher.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down event publisher", "error", err)
		}
	}
	if a.sqlDB != nil {
		_ = a.sqlDB.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// readCacheOptions enables the read cache only for the process-local memory store.
// SQLite files and PostgreSQL databases are shared with other processes whose joins and
// leaves would not invalidate this process's cache.
func readCacheOptions(cfg *config.Config) []job.Option {
	if cfg.StorageDriver != config.StorageDriverMemory {
		return nil
	}
	return []job.Option{job.WithReadCache(cfg.ReadCacheSize, cfg.ReadCacheTTL)}
}

// jobConfig resolves a job key against the loaded catalog
func (a *App) jobConfig(key string) (domain.JobConfig, error) {
	cfg, ok := a.catalog.Get(key)
	if !ok {
		return domain.JobConfig{}, fmt.Errorf("%w: %s (known: %v)", domain.ErrUnknownJob, key, a.catalog.Keys())
	}
	return cfg, nil
}

// shutdownTimeout bounds the final flush of queued events
const shutdownTimeout = 5 * time.Second
