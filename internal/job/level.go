package job

import (
	"math"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
)

// ComputeLevel walks the compounding threshold curve and returns the highest level
// whose threshold experience has passed, capped at cfg.MaxLevel.
// threshold(n) = StartExperience * ExperiencePercentage^n + n * Multiplier
func ComputeLevel(cfg domain.JobConfig, experience int64) int {
	exp := float64(experience)
	level := 0
	threshold := cfg.StartExperience
	for threshold+float64(level)*cfg.Multiplier < exp && level < cfg.MaxLevel {
		threshold *= cfg.ExperiencePercentage
		level++
	}
	return level
}

// ComputeExperienceForLevel returns ceil(threshold(level)), or 0 for negative levels.
// Level -1 is the floor of the level 0 band.
func ComputeExperienceForLevel(cfg domain.JobConfig, level int) int64 {
	if level < 0 {
		return 0
	}
	threshold := cfg.StartExperience*math.Pow(cfg.ExperiencePercentage, float64(level)) + float64(level)*cfg.Multiplier
	return int64(math.Ceil(threshold))
}

// Progress computes the numbers shown on the progress indicator
func Progress(cfg domain.JobConfig, experience int64) domain.ProgressView {
	level := ComputeLevel(cfg, experience)
	floor := ComputeExperienceForLevel(cfg, level-1)
	next := ComputeExperienceForLevel(cfg, level)

	return domain.ProgressView{
		JobKey:              cfg.Key,
		Label:               cfg.Label,
		Level:               level,
		MaxLevel:            cfg.MaxLevel,
		Experience:          experience,
		LevelFloor:          floor,
		NextLevelExperience: next,
		Progress:            bandProgress(experience, floor, next),
	}
}

// bandProgress is the clamped position of experience within [floor, next].
// A band of zero or negative width counts as complete.
func bandProgress(experience, floor, next int64) float64 {
	width := next - floor
	if width <= 0 {
		return 1
	}
	progress := float64(experience-floor) / float64(width)
	return math.Max(0, math.Min(1, progress))
}

// classifyOutcome maps a level transition to its outcome
func classifyOutcome(previousLevel, newLevel, maxLevel int) domain.LevelOutcome {
	switch {
	case newLevel <= previousLevel:
		return domain.LevelOutcomeNoChange
	case newLevel >= maxLevel:
		return domain.LevelOutcomeMaxLevelReached
	default:
		return domain.LevelOutcomeLeveledUp
	}
}

func (s *service) ComputeLevel(cfg domain.JobConfig, experience int64) int {
	return ComputeLevel(cfg, experience)
}

func (s *service) ComputeExperienceForLevel(cfg domain.JobConfig, level int) int64 {
	return ComputeExperienceForLevel(cfg, level)
}

func (s *service) Progress(cfg domain.JobConfig, experience int64) domain.ProgressView {
	return Progress(cfg, experience)
}
