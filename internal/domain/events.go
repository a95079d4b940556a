package domain

// Job event types
const (
	EventTypeJobJoined    = "job.joined"
	EventTypeJobLeft      = "job.left"
	EventTypeJobXPAwarded = "job.xp_awarded"
	EventTypeJobLevelUp   = "job.level_up"
	EventTypeJobMaxLevel  = "job.max_level"
)

