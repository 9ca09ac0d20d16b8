package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector records registry activity as Prometheus metrics. All
// record methods are safe on a nil receiver, so an uninstrumented
// registry carries a nil collector instead of conditional call sites.
type Collector struct {
	registrationsTotal *prometheus.CounterVec
	pluginsRegistered  prometheus.Gauge
	categoriesDefined  prometheus.Gauge
	lookupsTotal       *prometheus.CounterVec
	filtersTotal       prometheus.Counter
	moduleLoadsTotal   *prometheus.CounterVec
	moduleLoadDuration prometheus.Histogram

	logger *zap.Logger
}

// NewCollector creates a collector registering its metrics under the
// given namespace with the default Prometheus registerer.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Total number of plugin registration attempts",
		},
		[]string{"status"}, // status: ok, duplicate, invalid
	)

	c.pluginsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugins_registered",
			Help:      "Number of plugins currently registered",
		},
	)

	c.categoriesDefined = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "categories_defined",
			Help:      "Number of category buckets currently defined",
		},
	)

	c.lookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total number of lookups by name",
		},
		[]string{"result"}, // result: hit, miss, disabled
	)

	c.filtersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filters_total",
			Help:      "Total number of category filter queries",
		},
	)

	c.moduleLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "module_loads_total",
			Help:      "Total number of module load operations",
		},
		[]string{"status"}, // status: ok, error
	)

	c.moduleLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "module_load_duration_seconds",
			Help:      "Module load duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 10, 8),
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// RecordRegistration records one registration attempt.
func (c *Collector) RecordRegistration(status string) {
	if c == nil {
		return
	}
	c.registrationsTotal.WithLabelValues(status).Inc()
}

// SetPluginCount records the current number of registered plugins.
func (c *Collector) SetPluginCount(n int) {
	if c == nil {
		return
	}
	c.pluginsRegistered.Set(float64(n))
}

// SetCategoryCount records the current number of category buckets.
func (c *Collector) SetCategoryCount(n int) {
	if c == nil {
		return
	}
	c.categoriesDefined.Set(float64(n))
}

// RecordLookup records one lookup by name.
func (c *Collector) RecordLookup(result string) {
	if c == nil {
		return
	}
	c.lookupsTotal.WithLabelValues(result).Inc()
}

// RecordFilter records one category filter query.
func (c *Collector) RecordFilter() {
	if c == nil {
		return
	}
	c.filtersTotal.Inc()
}

// RecordModuleLoad records one module load operation.
func (c *Collector) RecordModuleLoad(status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.moduleLoadsTotal.WithLabelValues(status).Inc()
	c.moduleLoadDuration.Observe(duration.Seconds())
}
