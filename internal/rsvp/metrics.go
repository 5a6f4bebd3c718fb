package rsvp

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeAccepted = "accepted"
	outcomeHoneypot = "honeypot"
	outcomeInvalid  = "invalid"
	outcomeError    = "error"
)

var submissions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rsvp_submissions_total",
		Help: "RSVP submissions by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(submissions)
}
