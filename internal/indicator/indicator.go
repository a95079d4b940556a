package indicator

import (
	"time"

	"github.com/google/uuid"
)

// Indicator is a host-owned progress bar shown to one player
type Indicator interface {
	Render(title string, progress float64)
	SetVisible(visible bool)
	Destroy()
}

// Factory creates indicators bound to a player
type Factory interface {
	CreateIndicator(playerID uuid.UUID) Indicator
}

// Task is a pending scheduled callback
type Task interface {
	Cancel()
}

// Scheduler runs fn once after delay
type Scheduler interface {
	AfterFunc(delay time.Duration, fn func()) Task
}

// TimerScheduler schedules callbacks on time.AfterFunc
type TimerScheduler struct{}

// AfterFunc implements Scheduler
func (TimerScheduler) AfterFunc(delay time.Duration, fn func()) Task {
	return timerTask{timer: time.AfterFunc(delay, fn)}
}

type timerTask struct {
	timer *time.Timer
}

func (t timerTask) Cancel() {
	t.timer.Stop()
}
