package metrics

// ============================================================================
// Metric Names
// ============================================================================

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Job metric names
const (
	MetricNameJobXPAwarded         = "job_experience_awarded_total"
	MetricNameJobLevelUps          = "job_level_ups_total"
	MetricNameJobMaxLevelReached   = "job_max_level_reached_total"
	MetricNameJobMembershipChanges = "job_membership_changes_total"
	MetricNameActiveIndicators     = "job_progress_indicators_active"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published by type"
	HelpTextEventHandlerErrors = "Total number of event handler errors by type"
)

// Job metric help text
const (
	HelpTextJobXPAwarded         = "Total experience awarded by job"
	HelpTextJobLevelUps          = "Total level ups by job, max level included"
	HelpTextJobMaxLevelReached   = "Total times a player reached the max level by job"
	HelpTextJobMembershipChanges = "Total job joins and leaves by job and action"
	HelpTextActiveIndicators     = "Current number of players with a tracked progress indicator"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelType   = "type"
	LabelJob    = "job"
	LabelAction = "action"
)

// Membership actions
const (
	ActionJoin  = "join"
	ActionLeave = "leave"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded for metrics"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)
