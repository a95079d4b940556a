package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/cooldown"
	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// HasJob reports whether the player is currently enrolled in the job
func (s *service) HasJob(ctx context.Context, playerID uuid.UUID, jobKey string) (bool, error) {
	rec, err := s.findRecord(ctx, playerID, jobKey)
	if err != nil {
		return false, err
	}
	return rec != nil && rec.Active, nil
}

// JobCount counts the player's active jobs
func (s *service) JobCount(ctx context.Context, playerID uuid.UUID) (int, error) {
	records, err := s.playerRecords(ctx, playerID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, rec := range records {
		if rec.Active {
			count++
		}
	}
	return count, nil
}

// GetCooldownMinutes returns the whole minutes left on the job's cooldown.
// 0 without an active record; negative once the window has passed.
func (s *service) GetCooldownMinutes(ctx context.Context, playerID uuid.UUID, jobKey string) (int, error) {
	rec, err := s.findRecord(ctx, playerID, jobKey)
	if err != nil {
		return 0, err
	}
	if rec == nil || !rec.Active {
		return 0, nil
	}
	return cooldown.RemainingMinutes(rec.LastUsed, s.catalog.CooldownWindow(), s.now()), nil
}

// CheckJobCooldown returns cooldown.ErrOnCooldown while GetCooldownMinutes would be positive
func (s *service) CheckJobCooldown(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	rec, err := s.findRecord(ctx, playerID, jobKey)
	if err != nil {
		return err
	}
	if rec == nil || !rec.Active {
		return nil
	}
	return cooldown.Check(fmt.Sprintf(CooldownActionFmt, jobKey), rec.LastUsed, s.catalog.CooldownWindow(), s.now())
}

// JoinJob activates the job for the player and restarts its cooldown.
// Experience from an earlier enrollment is kept.
func (s *service) JoinJob(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	if _, ok := s.catalog.Get(jobKey); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownJob, jobKey)
	}

	now := s.now()
	_, err := s.repo.UpdateJobRecord(ctx, playerID, jobKey, func(rec *domain.JobRecord) error {
		rec.Active = true
		rec.LastUsed = now
		return nil
	})
	if errors.Is(err, domain.ErrJobRecordNotFound) {
		_, err = s.repo.CreateJobRecord(ctx, playerID, jobKey, true, now)
	}
	s.cache.invalidate(playerID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToJoinJob, err)
	}

	logger.FromContext(ctx).Info(LogMsgJobJoined, logger.AttrKeyPlayerID, playerID, "job", jobKey)
	s.publish(ctx, event.NewJobJoinedEvent(ctx, playerID, jobKey, now))
	return nil
}

// LeaveJob deactivates the job; a player who never joined is ignored
func (s *service) LeaveJob(ctx context.Context, playerID uuid.UUID, jobKey string) error {
	log := logger.FromContext(ctx)

	_, err := s.repo.UpdateJobRecord(ctx, playerID, jobKey, func(rec *domain.JobRecord) error {
		rec.Active = false
		return nil
	})
	if errors.Is(err, domain.ErrJobRecordNotFound) {
		log.Debug(LogMsgLeaveWithoutRecord, logger.AttrKeyPlayerID, playerID, "job", jobKey)
		return nil
	}
	s.cache.invalidate(playerID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLeaveJob, err)
	}

	log.Info(LogMsgJobLeft, logger.AttrKeyPlayerID, playerID, "job", jobKey)
	s.publish(ctx, event.NewJobLeftEvent(ctx, playerID, jobKey, s.now()))
	return nil
}

// GetPlayerJobs lists every catalog job with the player's enrollment and progress
func (s *service) GetPlayerJobs(ctx context.Context, playerID uuid.UUID) ([]domain.PlayerJobInfo, error) {
	records, err := s.repo.GetJobRecords(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadRecords, err)
	}

	byKey := make(map[string]domain.JobRecord, len(records))
	for _, rec := range records {
		byKey[rec.JobKey] = rec
	}

	now := s.now()
	infos := make([]domain.PlayerJobInfo, 0, len(s.catalog.Jobs))
	for _, cfg := range s.catalog.Jobs {
		rec, enrolled := byKey[cfg.Key]
		info := domain.PlayerJobInfo{
			JobKey:   cfg.Key,
			Label:    cfg.Label,
			Active:   enrolled && rec.Active,
			Enrolled: enrolled,
			View:     Progress(cfg, rec.Experience),
		}
		info.View.Enrolled = enrolled
		if info.Active {
			info.CooldownMinutes = cooldown.RemainingMinutes(rec.LastUsed, s.catalog.CooldownWindow(), now)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func (s *service) playerRecords(ctx context.Context, playerID uuid.UUID) ([]domain.JobRecord, error) {
	records, err := s.cache.records(ctx, playerID, func(ctx context.Context) ([]domain.JobRecord, error) {
		return s.repo.GetJobRecords(ctx, playerID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToLoadRecords, err)
	}
	return records, nil
}

func (s *service) findRecord(ctx context.Context, playerID uuid.UUID, jobKey string) (*domain.JobRecord, error) {
	records, err := s.playerRecords(ctx, playerID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].JobKey == jobKey {
			rec := records[i]
			return &rec, nil
		}
	}
	return nil, nil
}
