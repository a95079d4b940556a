package indicator

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PickariaJobs_Go/internal/logger"
	"github.com/osse101/PickariaJobs_Go/internal/metrics"
)

// DefaultHideDelay matches the host's 80 ticks at 20 ticks per second
const DefaultHideDelay = 4 * time.Second

// Released players are remembered long enough to outlive any in-flight award
const (
	releasedSessionsSize = 4096
	releasedSessionTTL   = 10 * time.Minute
)

type entry struct {
	indicator  Indicator
	hideTask   Task
	generation uint64
}

// Tracker keeps at most one indicator per player and hides it after a quiet period.
// Each Show supersedes the pending hide of the previous one.
type Tracker struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]*entry
	seq       uint64
	factory   Factory
	scheduler Scheduler
	hideDelay time.Duration

	// sessions counts releases per recently disconnected player
	sessions *expirable.LRU[uuid.UUID, uint64]
}

// NewTracker creates a Tracker. A nil scheduler uses TimerScheduler and a
// non-positive hideDelay uses DefaultHideDelay.
func NewTracker(factory Factory, scheduler Scheduler, hideDelay time.Duration) *Tracker {
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	if hideDelay <= 0 {
		hideDelay = DefaultHideDelay
	}
	return &Tracker{
		entries:   make(map[uuid.UUID]*entry),
		factory:   factory,
		scheduler: scheduler,
		hideDelay: hideDelay,
		sessions:  expirable.NewLRU[uuid.UUID, uint64](releasedSessionsSize, nil, releasedSessionTTL),
	}
}

// Session returns the player's current session. Capture it before work whose
// result is shown with ShowSession; a Release in between ends the session.
func (t *Tracker) Session(playerID uuid.UUID) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, _ := t.sessions.Get(playerID)
	return session
}

// ShowSession is Show for a result computed during session. It reports false and
// shows nothing if the player was released since, so a disconnect racing with an
// award does not leave an indicator behind for an offline player.
func (t *Tracker) ShowSession(playerID uuid.UUID, session uint64, title string, progress float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if current, _ := t.sessions.Get(playerID); current != session {
		logger.Debug("Dropped progress update from a released session", logger.AttrKeyPlayerID, playerID, "session", session, "current", current)
		return false
	}
	t.showLocked(playerID, title, progress)
	return true
}

// Show renders title and progress on the player's indicator, creating it on first use,
// and reschedules the auto-hide.
func (t *Tracker) Show(playerID uuid.UUID, title string, progress float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showLocked(playerID, title, progress)
}

func (t *Tracker) showLocked(playerID uuid.UUID, title string, progress float64) {
	e, ok := t.entries[playerID]
	if !ok {
		e = &entry{indicator: t.factory.CreateIndicator(playerID)}
		t.entries[playerID] = e
		metrics.ActiveIndicators.Inc()
	}

	e.indicator.Render(title, progress)
	e.indicator.SetVisible(true)

	if e.hideTask != nil {
		e.hideTask.Cancel()
	}
	t.seq++
	e.generation = t.seq
	generation := e.generation
	e.hideTask = t.scheduler.AfterFunc(t.hideDelay, func() {
		t.hide(playerID, generation)
	})
}

// hide runs on the scheduler; callbacks from superseded generations do nothing
func (t *Tracker) hide(playerID uuid.UUID, generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[playerID]
	if !ok || e.generation != generation {
		return
	}
	e.indicator.SetVisible(false)
	e.hideTask = nil
}

// Release cancels the pending hide, destroys the indicator, forgets the player
// and ends the player's session
func (t *Tracker) Release(playerID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, _ := t.sessions.Get(playerID)
	t.sessions.Add(playerID, session+1)
	t.releaseLocked(playerID)
}

func (t *Tracker) releaseLocked(playerID uuid.UUID) {
	e, ok := t.entries[playerID]
	if !ok {
		return
	}
	if e.hideTask != nil {
		e.hideTask.Cancel()
	}
	e.indicator.Destroy()
	delete(t.entries, playerID)
	metrics.ActiveIndicators.Dec()
}

// Active returns the number of players with a tracked indicator
func (t *Tracker) Active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Shutdown releases every tracked indicator
func (t *Tracker) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := len(t.entries)
	for playerID := range t.entries {
		t.releaseLocked(playerID)
	}
	if count > 0 {
		logger.Info("Released progress indicators on shutdown", "count", count)
	}
}
