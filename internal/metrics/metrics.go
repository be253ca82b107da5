package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal *prometheus.CounterVec
	engagementTotal   *prometheus.CounterVec
	registerOnce      sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the Pulse API.",
		}, []string{"method", "path", "status"})

		engagementTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulse",
			Name:      "engagement_events_total",
			Help:      "Votes, likes and comments processed, by kind.",
		}, []string{"kind"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// IncEngagement increments the engagement counter for one event kind.
func IncEngagement(kind string) {
	if engagementTotal == nil {
		return
	}
	engagementTotal.WithLabelValues(kind).Inc()
}
