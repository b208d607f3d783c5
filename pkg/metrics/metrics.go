// Package metrics exposes Prometheus counters for the client's protocol
// activity. They are served by the optional debug HTTP listener.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Custom registry so the endpoint only carries our metrics.
var registry = prometheus.NewRegistry()

var (
	FramesSent = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "stomp",
		Subsystem: "client",
		Name:      "frames_sent_total",
		Help:      "Frames sent to the server, by command.",
	}, []string{"command"})

	FramesReceived = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: "stomp",
		Subsystem: "client",
		Name:      "frames_received_total",
		Help:      "Frames received from the server, by command.",
	}, []string{"command"})

	EventsReported = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "stomp",
		Subsystem: "client",
		Name:      "events_reported_total",
		Help:      "Game events published with the report command.",
	})

	SessionsStarted = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "stomp",
		Subsystem: "client",
		Name:      "sessions_started_total",
		Help:      "Login sessions started.",
	})
)

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
