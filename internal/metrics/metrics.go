package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "taghvim"

// Metrics holds the bot's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Conversions        *prometheus.CounterVec
	ConversionDuration prometheus.Histogram
	Updates            *prometheus.CounterVec
	SendErrors         prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Date conversions by source era and outcome",
			},
			[]string{"era", "outcome"},
		),
		ConversionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "conversion_duration_seconds",
				Help:      "Time spent extracting, classifying and converting one message",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
		),
		Updates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "updates_total",
				Help:      "Telegram updates by dispatch kind",
			},
			[]string{"kind"},
		),
		SendErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "send_errors_total",
				Help:      "Failed sendMessage calls",
			},
		),
	}
}

// ObserveConversion records one conversion attempt. era is empty when the
// message never got as far as classification.
func (m *Metrics) ObserveConversion(era, outcome string, d time.Duration) {
	if era == "" {
		era = "none"
	}
	m.Conversions.WithLabelValues(era, outcome).Inc()
	m.ConversionDuration.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
