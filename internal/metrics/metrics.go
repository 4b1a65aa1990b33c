// Package metrics defines the Prometheus collectors for the bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts fully processed user turns.
	TurnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aptekabot_turns_total",
		Help: "Number of user turns processed end to end.",
	})

	// GenerationFailures counts failed generation calls.
	GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aptekabot_generation_failures_total",
		Help: "Number of failed model generation calls.",
	})

	// DirectivesApplied counts directives applied to the store, by kind.
	DirectivesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aptekabot_directives_applied_total",
		Help: "Number of directives applied to the store.",
	}, []string{"kind"})

	// DirectivesFailed counts directives that failed to apply, by kind.
	DirectivesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aptekabot_directives_failed_total",
		Help: "Number of directives that failed to apply.",
	}, []string{"kind"})

	// RemindersSent counts dosing reminder deliveries.
	RemindersSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aptekabot_reminders_sent_total",
		Help: "Number of dosing reminders delivered.",
	})
)
