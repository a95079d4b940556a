package cooldown

import (
	"fmt"
	"time"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
)

// ErrOnCooldown is returned when an action is still on cooldown
type ErrOnCooldown struct {
	Action    string
	Remaining time.Duration
}

func (e ErrOnCooldown) Error() string {
	minutes := int(e.Remaining.Minutes())
	if hours := minutes / MinutesPerHour; hours > 0 {
		return fmt.Sprintf(ErrFmtCooldownWithHours, e.Action, hours, minutes%MinutesPerHour)
	}
	return fmt.Sprintf(ErrFmtCooldownMinutesOnly, e.Action, minutes)
}

// Is allows errors.Is() to match both ErrOnCooldown and domain.ErrOnCooldown
func (e ErrOnCooldown) Is(target error) bool {
	if target == domain.ErrOnCooldown {
		return true
	}
	_, ok := target.(ErrOnCooldown)
	return ok
}

// Remaining is how long is left of window started at lastUsed.
// The result is negative once the window has elapsed.
func Remaining(lastUsed time.Time, window time.Duration, now time.Time) time.Duration {
	cutoff := now.Add(-window)
	return lastUsed.Sub(cutoff)
}

// RemainingMinutes is Remaining in whole minutes, truncated toward zero
func RemainingMinutes(lastUsed time.Time, window time.Duration, now time.Time) int {
	return int(Remaining(lastUsed, window, now) / time.Minute)
}

// Check returns ErrOnCooldown while at least one whole minute of the window is left
func Check(action string, lastUsed time.Time, window time.Duration, now time.Time) error {
	remaining := Remaining(lastUsed, window, now)
	if remaining/time.Minute > 0 {
		return ErrOnCooldown{Action: action, Remaining: remaining}
	}
	return nil
}
