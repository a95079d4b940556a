package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/PickariaJobs_Go/internal/domain"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Job event types
const (
	JobJoined    Type = domain.EventTypeJobJoined
	JobLeft      Type = domain.EventTypeJobLeft
	JobXPAwarded Type = domain.EventTypeJobXPAwarded
	JobLevelUp   Type = domain.EventTypeJobLevelUp
	JobMaxLevel  Type = domain.EventTypeJobMaxLevel
)

// JobTypes lists every job event type
var JobTypes = []Type{JobJoined, JobLeft, JobXPAwarded, JobLevelUp, JobMaxLevel}

// Typed event payloads for type safety

// JobMembershipPayloadV1 is the typed payload for job joined/left events
type JobMembershipPayloadV1 struct {
	PlayerID  uuid.UUID `json:"player_id"`
	JobKey    string    `json:"job_key"`
	Timestamp int64     `json:"timestamp"`
}

// JobXPAwardedPayloadV1 is the typed payload for experience award events
type JobXPAwardedPayloadV1 struct {
	PlayerID      uuid.UUID `json:"player_id"`
	JobKey        string    `json:"job_key"`
	Amount        int       `json:"amount"`
	NewExperience int64     `json:"new_experience"`
	Level         int       `json:"level"`
	Timestamp     int64     `json:"timestamp"`
}

// JobLevelUpPayloadV1 is the typed payload for job level up and max level events
type JobLevelUpPayloadV1 struct {
	PlayerID uuid.UUID `json:"player_id"`
	JobKey   string    `json:"job_key"`
	Label    string    `json:"label"`
	OldLevel int       `json:"old_level"`
	NewLevel int       `json:"new_level"`
	MaxLevel int       `json:"max_level"`
}

// Type-safe event constructors

// NewJobJoinedEvent creates a new job joined event
func NewJobJoinedEvent(ctx context.Context, playerID uuid.UUID, jobKey string, at time.Time) Event {
	return newJobEvent(ctx, JobJoined, JobMembershipPayloadV1{
		PlayerID:  playerID,
		JobKey:    jobKey,
		Timestamp: at.Unix(),
	})
}

// NewJobLeftEvent creates a new job left event
func NewJobLeftEvent(ctx context.Context, playerID uuid.UUID, jobKey string, at time.Time) Event {
	return newJobEvent(ctx, JobLeft, JobMembershipPayloadV1{
		PlayerID:  playerID,
		JobKey:    jobKey,
		Timestamp: at.Unix(),
	})
}

// NewJobXPAwardedEvent creates a new experience award event
func NewJobXPAwardedEvent(ctx context.Context, playerID uuid.UUID, jobKey string, amount int, newExperience int64, level int, at time.Time) Event {
	return newJobEvent(ctx, JobXPAwarded, JobXPAwardedPayloadV1{
		PlayerID:      playerID,
		JobKey:        jobKey,
		Amount:        amount,
		NewExperience: newExperience,
		Level:         level,
		Timestamp:     at.Unix(),
	})
}

// NewJobLevelUpEvent creates a level up event, or a max level event when outcome says so
func NewJobLevelUpEvent(ctx context.Context, playerID uuid.UUID, cfg domain.JobConfig, oldLevel, newLevel int, outcome domain.LevelOutcome) Event {
	eventType := JobLevelUp
	if outcome == domain.LevelOutcomeMaxLevelReached {
		eventType = JobMaxLevel
	}
	return newJobEvent(ctx, eventType, JobLevelUpPayloadV1{
		PlayerID: playerID,
		JobKey:   cfg.Key,
		Label:    cfg.Label,
		OldLevel: oldLevel,
		NewLevel: newLevel,
		MaxLevel: cfg.MaxLevel,
	})
}

func newJobEvent(ctx context.Context, eventType Type, payload interface{}) Event {
	evt := Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: payload,
	}
	if id := logger.GetEventID(ctx); id != "" {
		evt.Metadata = Metadata{MetadataKeyEventID: id}
	}
	return evt
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
