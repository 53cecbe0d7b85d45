// Package metrics exposes Prometheus counters and histograms for tariff
// calculations, comparisons, imports and publishing.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	metricPrefix = "gridtariff_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	calculationTotal   *prometheus.CounterVec
	calculationLatency *prometheus.HistogramVec

	comparisonTotal *prometheus.CounterVec

	readingsImported *prometheus.CounterVec
	readingsSkipped  *prometheus.CounterVec

	publishTotal *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
)

// Init registers the metrics with the default registry. It is safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		calculationTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Total bill calculations by scheme and result",
			},
			[]string{"scheme", "result"},
		)
		calculationLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "calculation_latency_seconds",
				Help:    "Bill calculation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scheme"},
		)

		comparisonTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "comparisons_total",
				Help: "Total plan comparisons by result",
			},
			[]string{"result"},
		)

		readingsImported = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_imported_total",
				Help: "Total usage readings stored by service",
			},
			[]string{"service"},
		)
		readingsSkipped = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "readings_skipped_total",
				Help: "Total usage rows rejected during import by service",
			},
			[]string{"service"},
		)

		publishTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "publish_total",
				Help: "Total comparison publishes by result",
			},
			[]string{"result"},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total API requests by route and status code",
			},
			[]string{"route", "code"},
		)

		prometheus.MustRegister(collectors()...)
	})
}

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		calculationTotal,
		calculationLatency,
		comparisonTotal,
		readingsImported,
		readingsSkipped,
		publishTotal,
		httpRequests,
	}
}

// Push sends the current values to a Prometheus Pushgateway under job.
// Short-lived CLI runs use this since nothing scrapes them.
func Push(url, job string) error {
	if calculationTotal == nil {
		return fmt.Errorf("metrics not initialized")
	}
	pusher := push.New(url, job)
	for _, c := range collectors() {
		pusher = pusher.Collector(c)
	}
	// Add keeps series pushed by other commands under the same job
	if err := pusher.Add(); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", url, err)
	}
	return nil
}

func resultOf(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}

// ObserveCalculation records one calculator run.
func ObserveCalculation(scheme string, err error, duration time.Duration) {
	if scheme == "" {
		scheme = "unknown"
	}
	if calculationTotal != nil {
		calculationTotal.WithLabelValues(scheme, resultOf(err)).Inc()
	}
	if calculationLatency != nil {
		calculationLatency.WithLabelValues(scheme).Observe(duration.Seconds())
	}
}

// ObserveComparison records one comparison.
func ObserveComparison(err error) {
	if comparisonTotal != nil {
		comparisonTotal.WithLabelValues(resultOf(err)).Inc()
	}
}

// AddImported records stored and rejected rows of an import.
func AddImported(service string, stored, skipped int) {
	if service == "" {
		service = "unknown"
	}
	if readingsImported != nil && stored > 0 {
		readingsImported.WithLabelValues(service).Add(float64(stored))
	}
	if readingsSkipped != nil && skipped > 0 {
		readingsSkipped.WithLabelValues(service).Add(float64(skipped))
	}
}

// ObservePublish records one publish attempt.
func ObservePublish(err error) {
	if publishTotal != nil {
		publishTotal.WithLabelValues(resultOf(err)).Inc()
	}
}

// IncHTTPRequest counts an API response.
func IncHTTPRequest(route, code string) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, code).Inc()
	}
}
