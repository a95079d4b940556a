package cooldown

// =============================================================================
// Error Message Format Strings (for ErrOnCooldown.Error())
// =============================================================================

const (
	// ErrFmtCooldownWithHours formats cooldown error with hours and minutes
	ErrFmtCooldownWithHours = "you can %s again in %dh %dm"

	// ErrFmtCooldownMinutesOnly formats cooldown error with minutes only
	ErrFmtCooldownMinutesOnly = "you can %s again in %dm"
)

// =============================================================================
// Time Conversion Constants
// =============================================================================

const (
	// MinutesPerHour is used for time duration calculations
	MinutesPerHour = 60
)
