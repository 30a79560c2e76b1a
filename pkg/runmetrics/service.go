package runmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	metricPrefix = "energy_collector_"

	resultSuccess = "success"
	resultError   = "error"
)

// Recorder keeps the metrics of a single collector process.
type Recorder struct {
	registry *prometheus.Registry

	fetchTotal     *prometheus.CounterVec
	runsTotal      *prometheus.CounterVec
	recordsWritten prometheus.Counter
	runDuration    prometheus.Histogram
	lastSuccess    prometheus.Gauge
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "fetch_total",
				Help: "Source fetches by source and result",
			},
			[]string{"source", "result"},
		),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "runs_total",
				Help: "Collection runs by outcome",
			},
			[]string{"outcome"},
		),
		recordsWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "records_written_total",
				Help: "Energy records handed to the sink",
			},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "run_duration_seconds",
				Help:    "Collection run duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: metricPrefix + "last_success_timestamp_seconds",
				Help: "Unix time of the last run that wrote records",
			},
		),
	}

	r.registry.MustRegister(
		r.fetchTotal,
		r.runsTotal,
		r.recordsWritten,
		r.runDuration,
		r.lastSuccess,
	)
	return r
}

func (r *Recorder) ObserveFetch(source string, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	r.fetchTotal.WithLabelValues(source, result).Inc()
}

func (r *Recorder) ObserveRun(outcome string, written int, duration time.Duration) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.Observe(duration.Seconds())
	if written > 0 {
		r.recordsWritten.Add(float64(written))
		r.lastSuccess.SetToCurrentTime()
	}
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Push replaces this job's metrics on the Pushgateway.
func (r *Recorder) Push(pushgatewayURL, job string) error {
	return push.New(pushgatewayURL, job).Gatherer(r.registry).Push()
}
