package notify

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

var notifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rsvp_notifications_total",
		Help: "RSVP notification emails by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

func init() {
	prometheus.MustRegister(notifications)
}
