package job

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// AwardExperience adds amount to the player's experience in the job and classifies
// the level change. Players who never joined get NoChange; inactive records still earn.
func (s *service) AwardExperience(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, amount int) (domain.LevelOutcome, error) {
	outcome, _, err := s.awardExperience(ctx, playerID, cfg, amount)
	return outcome, err
}

// AwardExperienceAndPresent awards experience and shows the resulting progress.
// A player without a record earns nothing but is still shown progress at zero experience.
func (s *service) AwardExperienceAndPresent(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, amount int) (*domain.ProgressView, error) {
	var session uint64
	if s.presenter != nil {
		session = s.presenter.Session(playerID)
	}

	outcome, rec, err := s.awardExperience(ctx, playerID, cfg, amount)
	if err != nil {
		return nil, err
	}

	var experience int64
	if rec != nil {
		experience = rec.Experience
	}
	view := Progress(cfg, experience)
	view.Outcome = outcome
	view.Enrolled = rec != nil

	if s.presenter != nil {
		s.presenter.ShowSession(playerID, session, view.Title(), view.Progress)
	}
	return &view, nil
}

func (s *service) awardExperience(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, amount int) (domain.LevelOutcome, *domain.JobRecord, error) {
	if amount < 0 {
		return domain.LevelOutcomeNoChange, nil, fmt.Errorf("%w: "+ErrMsgNegativeExperienceFmt, domain.ErrInvalidInput, amount)
	}

	log := logger.FromContext(ctx)

	var previous int64
	rec, err := s.repo.UpdateJobRecord(ctx, playerID, cfg.Key, func(r *domain.JobRecord) error {
		previous = r.Experience
		r.Experience += int64(amount)
		return nil
	})
	if errors.Is(err, domain.ErrJobRecordNotFound) {
		log.Debug(LogMsgAwardWithoutRecord, logger.AttrKeyPlayerID, playerID, "job", cfg.Key)
		return domain.LevelOutcomeNoChange, nil, nil
	}
	if err != nil {
		return domain.LevelOutcomeNoChange, nil, fmt.Errorf("%s: %w", ErrMsgFailedToAwardXP, err)
	}

	previousLevel := ComputeLevel(cfg, previous)
	newLevel := ComputeLevel(cfg, rec.Experience)
	outcome := classifyOutcome(previousLevel, newLevel, cfg.MaxLevel)

	if amount > 0 {
		s.publish(ctx, event.NewJobXPAwardedEvent(ctx, playerID, cfg.Key, amount, rec.Experience, newLevel, s.now()))
	}

	switch outcome {
	case domain.LevelOutcomeLeveledUp:
		log.Info(LogMsgLevelUp, logger.AttrKeyPlayerID, playerID, "job", cfg.Key, "old_level", previousLevel, "new_level", newLevel)
	case domain.LevelOutcomeMaxLevelReached:
		log.Info(LogMsgMaxLevelReached, logger.AttrKeyPlayerID, playerID, "job", cfg.Key, "level", newLevel)
	}
	if outcome != domain.LevelOutcomeNoChange {
		s.publish(ctx, event.NewJobLevelUpEvent(ctx, playerID, cfg, previousLevel, newLevel, outcome))
	}

	return outcome, rec, nil
}
