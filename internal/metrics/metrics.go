// README: Prometheus metrics for external collaborators and story generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	externalRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fable",
		Subsystem: "external",
		Name:      "requests_total",
		Help:      "Total requests to external services",
	}, []string{"service", "status"})

	externalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fable",
		Subsystem: "external",
		Name:      "request_duration_seconds",
		Help:      "Latency of external service requests",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"service"})

	StoryFragments = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fable",
		Subsystem: "story",
		Name:      "fragments_total",
		Help:      "Total story text fragments streamed to clients",
	})

	StoryGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fable",
		Subsystem: "story",
		Name:      "generations_total",
		Help:      "Total story generation attempts",
	}, []string{"provider", "status"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "fable",
		Subsystem: "trip",
		Name:      "sessions_active",
		Help:      "Number of live trip sessions",
	})
)

// ObserveExternal records one call to an external service.
func ObserveExternal(service string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	externalRequestsTotal.WithLabelValues(service, status).Inc()
	externalRequestDuration.WithLabelValues(service).Observe(time.Since(start).Seconds())
}

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
