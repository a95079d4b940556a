package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobRecord tracks a player's enrollment and experience in a single job.
// There is at most one record per (PlayerID, JobKey).
type JobRecord struct {
	PlayerID   uuid.UUID `json:"player_id"`
	JobKey     string    `json:"job_key"`
	Active     bool      `json:"active"`
	Experience int64     `json:"experience"`
	LastUsed   time.Time `json:"last_used"` // Refreshed on every join
}

// JobConfig holds the leveling curve of a job. Loaded once at startup.
type JobConfig struct {
	Key                  string  `json:"key" validate:"required,jobkey"`
	Label                string  `json:"label" validate:"required"`
	StartExperience      float64 `json:"start_experience" validate:"gte=0"`
	ExperiencePercentage float64 `json:"experience_percentage" validate:"gt=1"`
	Multiplier           float64 `json:"multiplier" validate:"gte=0"`
	MaxLevel             int     `json:"-"` // Copied from JobCatalog.MaxLevel
}

// JobCatalog is the static set of jobs plus the settings they share
type JobCatalog struct {
	MaxLevel      int         `json:"max_level" validate:"gte=1"`
	CooldownHours int         `json:"cooldown_hours" validate:"gte=0"`
	Jobs          []JobConfig `json:"jobs" validate:"required,min=1,unique=Key,dive"`
}

// Get returns the job config for key
func (c *JobCatalog) Get(key string) (JobConfig, bool) {
	for _, job := range c.Jobs {
		if job.Key == key {
			return job, true
		}
	}
	return JobConfig{}, false
}

// Keys returns the job keys in catalog order
func (c *JobCatalog) Keys() []string {
	keys := make([]string, 0, len(c.Jobs))
	for _, job := range c.Jobs {
		keys = append(keys, job.Key)
	}
	return keys
}

// CooldownWindow is the shared cooldown as a duration
func (c *JobCatalog) CooldownWindow() time.Duration {
	return time.Duration(c.CooldownHours) * time.Hour
}

// LevelOutcome classifies the effect of an experience award
type LevelOutcome int

const (
	LevelOutcomeNoChange LevelOutcome = iota
	LevelOutcomeLeveledUp
	LevelOutcomeMaxLevelReached
)

func (o LevelOutcome) String() string {
	switch o {
	case LevelOutcomeNoChange:
		return "no_change"
	case LevelOutcomeLeveledUp:
		return "leveled_up"
	case LevelOutcomeMaxLevelReached:
		return "max_level_reached"
	default:
		return fmt.Sprintf("level_outcome(%d)", int(o))
	}
}

// ProgressView contains the already computed numbers a presentation layer renders
type ProgressView struct {
	JobKey              string       `json:"job_key"`
	Label               string       `json:"label"`
	Level               int          `json:"level"`
	MaxLevel            int          `json:"max_level"`
	Experience          int64        `json:"experience"`
	LevelFloor          int64        `json:"level_floor"`
	NextLevelExperience int64        `json:"next_level_experience"`
	Progress            float64      `json:"progress"` // Always within [0, 1]
	Outcome             LevelOutcome `json:"outcome"`
	Enrolled            bool         `json:"enrolled"` // False when the player has no record and nothing was awarded
}

// Title is the text shown on the progress indicator
func (v ProgressView) Title() string {
	return fmt.Sprintf("%s | Level %d (%d / %d)", v.Label, v.Level, v.Experience, v.NextLevelExperience)
}

// PlayerJobInfo combines a catalog job with the player's record for status listings
type PlayerJobInfo struct {
	JobKey          string       `json:"job_key"`
	Label           string       `json:"label"`
	Active          bool         `json:"active"`
	Enrolled        bool         `json:"enrolled"` // A record exists
	CooldownMinutes int          `json:"cooldown_minutes"`
	View            ProgressView `json:"view"`
}
