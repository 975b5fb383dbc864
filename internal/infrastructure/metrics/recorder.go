package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cocoscan"

// Recorder owns the service collectors on a private registry so tests can
// build as many recorders as they need.
type Recorder struct {
	registry             *prometheus.Registry
	addressesScanned     prometheus.Counter
	accountsMaterialized prometheus.Counter
	accountFailures      prometheus.Counter
	assetLookupFailures  *prometheus.CounterVec
	jobsFinished         *prometheus.CounterVec
	jobsRunning          prometheus.Gauge
}

func NewRecorder() *Recorder {
	recorder := &Recorder{
		registry: prometheus.NewRegistry(),
		addressesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "addresses_scanned_total",
			Help:      "Addresses examined for colored assets.",
		}),
		accountsMaterialized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "accounts_materialized_total",
			Help:      "Colored accounts created by discovery.",
		}),
		accountFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "account_materialization_failures_total",
			Help:      "Discovered colored accounts that could not be stored.",
		}),
		assetLookupFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "asset_lookup_failures_total",
			Help:      "Colored asset lookups that failed, by reason.",
		}, []string{"reason"}),
		jobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "jobs_total",
			Help:      "Discovery jobs that reached a terminal status.",
		}, []string{"status"}),
		jobsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "jobs_running",
			Help:      "Discovery jobs currently scanning.",
		}),
	}

	recorder.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		recorder.addressesScanned,
		recorder.accountsMaterialized,
		recorder.accountFailures,
		recorder.assetLookupFailures,
		recorder.jobsFinished,
		recorder.jobsRunning,
	)
	return recorder
}

func (r *Recorder) ObserveAddressesScanned(count int) {
	if count > 0 {
		r.addressesScanned.Add(float64(count))
	}
}

func (r *Recorder) ObserveAccountsMaterialized(count int) {
	if count > 0 {
		r.accountsMaterialized.Add(float64(count))
	}
}

func (r *Recorder) ObserveMaterializationFailures(count int) {
	if count > 0 {
		r.accountFailures.Add(float64(count))
	}
}

func (r *Recorder) ObserveAssetLookupFailure(reason string) {
	r.assetLookupFailures.WithLabelValues(reason).Inc()
}

func (r *Recorder) ObserveJobStarted() {
	r.jobsRunning.Inc()
}

func (r *Recorder) ObserveJobFinished(status string, wasRunning bool) {
	if wasRunning {
		r.jobsRunning.Dec()
	}
	r.jobsFinished.WithLabelValues(status).Inc()
}

func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
