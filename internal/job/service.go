package job

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
	"github.com/osse101/PickariaJobs_Go/internal/repository"
)

// ProgressPresenter shows a player's progress and forgets players that disconnect.
// Session is captured before an award; ShowSession drops the update if the player
// was released in the meantime. Implemented by indicator.Tracker.
type ProgressPresenter interface {
	Session(playerID uuid.UUID) uint64
	ShowSession(playerID uuid.UUID, session uint64, title string, progress float64) bool
	Release(playerID uuid.UUID)
}

// Publisher delivers job events. Implemented by event.ResilientPublisher.
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Service defines the job progression business logic
type Service interface {
	// Membership
	HasJob(ctx context.Context, playerID uuid.UUID, jobKey string) (bool, error)
	JobCount(ctx context.Context, playerID uuid.UUID) (int, error)
	JoinJob(ctx context.Context, playerID uuid.UUID, jobKey string) error
	LeaveJob(ctx context.Context, playerID uuid.UUID, jobKey string) error
	GetPlayerJobs(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobInfo, error)

	// Cooldown
	GetCooldownMinutes(ctx context.Context, playerID uuid.UUID, jobKey string) (int, error)
	CheckJobCooldown(ctx context.Context, playerID uuid.UUID, jobKey string) error

	// Experience
	ComputeLevel(cfg domain.JobConfig, experience int64) int
	ComputeExperienceForLevel(cfg domain.JobConfig, level int) int64
	Progress(cfg domain.JobConfig, experience int64) domain.ProgressView
	AwardExperience(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, amount int) (domain.LevelOutcome, error)
	AwardExperienceAndPresent(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, amount int) (*domain.ProgressView, error)

	// Lifecycle
	PlayerDisconnected(ctx context.Context, playerID uuid.UUID)
}

type service struct {
	repo      repository.Job
	catalog   *domain.JobCatalog
	presenter ProgressPresenter
	publisher Publisher
	cache     *recordCache // nil disables caching
	now       func() time.Time
}

// Option configures the service
type Option func(*service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithReadCache caches membership and cooldown reads per player.
// Only this service's own joins and leaves invalidate entries: when another process
// shares the store, HasJob, JobCount and cooldown reads may be stale for up to ttl.
// A non-positive size disables the cache.
func WithReadCache(size int, ttl time.Duration) Option {
	return func(s *service) {
		if size <= 0 {
			s.cache = nil
			return
		}
		s.cache = newRecordCache(size, ttl)
	}
}

// NewService creates a new job service. presenter and publisher may be nil.
func NewService(repo repository.Job, catalog *domain.JobCatalog, presenter ProgressPresenter, publisher Publisher, opts ...Option) Service {
	s := &service{
		repo:      repo,
		catalog:   catalog,
		presenter: presenter,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlayerDisconnected drops the player's indicator and cached reads
func (s *service) PlayerDisconnected(ctx context.Context, playerID uuid.UUID) {
	if s.presenter != nil {
		s.presenter.Release(playerID)
	}
	s.cache.invalidate(playerID)
	logger.FromContext(ctx).Debug(LogMsgPlayerDisconnected, logger.AttrKeyPlayerID, playerID)
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
