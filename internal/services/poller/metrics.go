package poller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewbox_poller_cycles_total",
		Help: "The total number of poll cycles by outcome",
	}, []string{"outcome"})

	CycleErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewbox_poller_errors_total",
		Help: "The total number of errors met inside poll cycles by kind",
	}, []string{"kind"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewbox_poller_notifications_total",
		Help: "The total number of status change notifications by result",
	}, []string{"result"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewbox_poller_events_published_total",
		Help: "The total number of status change events written to Kafka by result",
	}, []string{"result"})

	TrackedHomeworks = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "reviewbox_poller_tracked_homeworks",
		Help: "The number of homeworks with a known status",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reviewbox_poller_cycle_duration_seconds",
		Help:    "Time taken by one poll cycle",
		Buckets: prometheus.DefBuckets,
	})
)
