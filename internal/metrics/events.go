package metrics

import (
	"context"

	"github.com/osse101/PickariaJobs_Go/internal/event"
	"github.com/osse101/PickariaJobs_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all job events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range event.JobTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.JobJoined, event.JobLeft:
		payload, err := event.DecodePayload[event.JobMembershipPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		action := ActionJoin
		if evt.Type == event.JobLeft {
			action = ActionLeave
		}
		JobMembershipChanges.WithLabelValues(payload.JobKey, action).Inc()

	case event.JobXPAwarded:
		payload, err := event.DecodePayload[event.JobXPAwardedPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		JobXPAwarded.WithLabelValues(payload.JobKey).Add(float64(payload.Amount))

	case event.JobLevelUp, event.JobMaxLevel:
		payload, err := event.DecodePayload[event.JobLevelUpPayloadV1](evt.Payload)
		if err != nil {
			return e.decodeFailed(ctx, evt, err)
		}
		JobLevelUps.WithLabelValues(payload.JobKey).Inc()
		if evt.Type == event.JobMaxLevel {
			JobMaxLevelReached.WithLabelValues(payload.JobKey).Inc()
		}
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// decodeFailed counts the error but does not fail the publish
func (e *EventMetricsCollector) decodeFailed(ctx context.Context, evt event.Event, err error) error {
	EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
	logger.FromContext(ctx).Warn(LogMsgEventPayloadDecodeFailed, "type", evt.Type, "error", err)
	return nil
}
