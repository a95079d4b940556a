package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Job Metrics
var (
	JobXPAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobXPAwarded,
			Help: HelpTextJobXPAwarded,
		},
		[]string{LabelJob},
	)

	JobLevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobLevelUps,
			Help: HelpTextJobLevelUps,
		},
		[]string{LabelJob},
	)

	JobMaxLevelReached = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobMaxLevelReached,
			Help: HelpTextJobMaxLevelReached,
		},
		[]string{LabelJob},
	)

	JobMembershipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameJobMembershipChanges,
			Help: HelpTextJobMembershipChanges,
		},
		[]string{LabelJob, LabelAction},
	)

	ActiveIndicators = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveIndicators,
			Help: HelpTextActiveIndicators,
		},
	)
)
