package symbols

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/grafana/symcache/pkg/util"
)

const (
	// Status values for metrics
	statusSuccess = "success"

	// Error status prefixes
	statusErrorPrefix = "error:"

	// HTTP error statuses
	statusErrorNotFound    = statusErrorPrefix + "not_found"
	statusErrorClientError = statusErrorPrefix + "client_error"
	statusErrorServerError = statusErrorPrefix + "server_error"

	// General error statuses
	statusErrorCanceled = statusErrorPrefix + "canceled"
	statusErrorTimeout  = statusErrorPrefix + "timeout"
	statusErrorOther    = statusErrorPrefix + "other"
)

type metrics struct {
	registerer prometheus.Registerer

	// Lookup metrics
	lookupDuration *prometheus.HistogramVec
	storeLookups   *prometheus.CounterVec

	// Symbol server metrics
	serverRequestDuration *prometheus.HistogramVec
	serverDownloadSize    prometheus.Histogram
	notFoundCacheHits     prometheus.Counter

	// Conversion metrics
	conversionDuration *prometheus.HistogramVec

	// Buffer registry metrics
	liveBuffers     prometheus.Gauge
	replacedBuffers prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		registerer: reg,
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "symcache_lookup_duration_seconds",
			Help:    "Time spent resolving symbol files by result",
			Buckets: []float64{.005, .05, .25, 1, 5, 30, 60, 120, 300},
		}, []string{"result"}),
		storeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "symcache_store_lookups_total",
			Help: "Total number of local symbol store probes by result",
		}, []string{"result"}),
		serverRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "symcache_symbol_server_request_duration_seconds",
			Help:    "Time spent fetching native debug files from the symbol server by status",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"status"}),
		serverDownloadSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "symcache_symbol_server_download_size_bytes",
				Help: "Size of native debug files downloaded from the symbol server",
				// 64KB to 4GB
				Buckets: prometheus.ExponentialBuckets(64*1024, 4, 9),
			},
		),
		notFoundCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symcache_symbol_server_not_found_cache_hits_total",
			Help: "Total number of fetches skipped because the file is already known to be absent upstream",
		}),
		conversionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "symcache_conversion_duration_seconds",
			Help:    "Time spent converting native debug files to symbol files by status",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		}, []string{"status"}),
		liveBuffers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "symcache_symbol_buffers_live",
			Help: "Number of symbol data buffers currently registered and not yet released",
		}),
		replacedBuffers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "symcache_symbol_buffers_replaced_total",
			Help: "Total number of buffers released because their module was registered again",
		}),
	}

	if reg != nil {
		m.register()
	}

	return m
}

func (m *metrics) register() {
	m.lookupDuration = util.RegisterOrGet(m.registerer, m.lookupDuration)
	m.storeLookups = util.RegisterOrGet(m.registerer, m.storeLookups)
	m.serverRequestDuration = util.RegisterOrGet(m.registerer, m.serverRequestDuration)
	m.serverDownloadSize = util.RegisterOrGet(m.registerer, m.serverDownloadSize)
	m.notFoundCacheHits = util.RegisterOrGet(m.registerer, m.notFoundCacheHits)
	m.conversionDuration = util.RegisterOrGet(m.registerer, m.conversionDuration)
	m.liveBuffers = util.RegisterOrGet(m.registerer, m.liveBuffers)
	m.replacedBuffers = util.RegisterOrGet(m.registerer, m.replacedBuffers)
}
