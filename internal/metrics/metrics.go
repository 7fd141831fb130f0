package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the gateway's Prometheus metrics on a private registry.
type Collector struct {
	Registry *prometheus.Registry

	// Inbound webhook traffic.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Outbound Slack Web API calls.
	SlackCallsTotal   *prometheus.CounterVec
	SlackCallDuration *prometheus.HistogramVec

	// Acknowledgements by outcome (success, failure, error).
	Acknowledgements *prometheus.CounterVec
}

// NewCollector creates a Collector with every metric registered, plus the Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		Registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slackgw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total inbound HTTP requests.",
		}, []string{"method", "route", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slackgw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Inbound HTTP request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		}, []string{"method", "route"}),

		SlackCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slackgw",
			Subsystem: "slack",
			Name:      "calls_total",
			Help:      "Total outbound Slack Web API calls by endpoint and HTTP status (0 when no response).",
		}, []string{"endpoint", "status_code"}),

		SlackCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slackgw",
			Subsystem: "slack",
			Name:      "call_duration_seconds",
			Help:      "Outbound Slack Web API call duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3},
		}, []string{"endpoint"}),

		Acknowledgements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slackgw",
			Subsystem: "webhook",
			Name:      "acknowledgements_total",
			Help:      "Acknowledgements returned to Slack by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
	}

	reg.MustRegister(
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.SlackCallsTotal,
		c.SlackCallDuration,
		c.Acknowledgements,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}
