// Package services – Prometheus instrumentation for the intake flow.
//
// HTTP-level metrics live in the middleware package; the counters here track
// domain outcomes that dashboards alert on: how many updates were processed
// or collapsed as duplicates, how many tickets were created, and how many
// outbound replies failed (fire-and-forget sends are invisible to HTTP
// metrics, so failures are counted here).
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// updatesProcessed counts inbound updates dispatched to the FSM.
	updatesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_updates_processed_total",
		Help: "Total number of Telegram updates dispatched to the conversation flow.",
	})

	// updatesDuplicate counts deliveries collapsed by the idempotency ledger.
	updatesDuplicate = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_updates_duplicate_total",
		Help: "Total number of Telegram updates acknowledged as already processed.",
	})

	// ticketsCreated counts tickets written by the chat channel.
	ticketsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_tickets_created_total",
		Help: "Total number of grievance tickets created through the Telegram channel.",
	})

	// repliesFailed counts outbound sends that errored. Fire-and-forget, so
	// this counter is the only trace of a platform outage besides logs.
	repliesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intake_replies_failed_total",
		Help: "Total number of outbound Telegram calls that failed.",
	})
)

func init() {
	prometheus.MustRegister(updatesProcessed, updatesDuplicate, ticketsCreated, repliesFailed)
}
