// Package metrics exposes moderation counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry             *prometheus.Registry
	Submitted            prometheus.Counter
	ModerationActions    *prometheus.CounterVec // label: action
	ImageCleanupFailures prometheus.Counter
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "announcements_submitted_total",
			Help:      "Announcements submitted for review.",
		}),
		ModerationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Moderation actions applied, by action.",
		}, []string{"action"}),
		ImageCleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_cleanup_failures_total",
			Help:      "Image files that could not be removed after an announcement was deleted.",
		}),
	}
	reg.MustRegister(
		m.Submitted,
		m.ModerationActions,
		m.ImageCleanupFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}
