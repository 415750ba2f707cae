// Package metrics exposes the bot's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsProcessed counts inbound webhook events by classification.
	EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberbot_events_processed_total",
		Help: "Inbound webhook events by sender classification.",
	}, []string{"classification"})

	// DuplicatesDropped counts deliveries absorbed by the dedup guard.
	DuplicatesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "barberbot_duplicates_dropped_total",
		Help: "Webhook deliveries rejected as duplicates.",
	})

	// MessagesSent counts outbound sends by result.
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberbot_messages_sent_total",
		Help: "Outbound gateway sends by result.",
	}, []string{"result"})

	// ActionsDispatched counts scheduled actions by cycle outcome.
	ActionsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "barberbot_actions_dispatched_total",
		Help: "Scheduled actions processed by the dispatch engine, by outcome.",
	}, []string{"outcome"})
)
