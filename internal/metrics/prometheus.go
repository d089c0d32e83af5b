package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all rule metrics.
type Registry struct {
	// Module writes by kind and validation result
	ModuleWrites *prometheus.CounterVec

	// Rule exports by renderer shape and result
	Exports *prometheus.CounterVec

	// System-state lookups
	LookupDuration *prometheus.HistogramVec
	LookupErrors   *prometheus.CounterVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry(prometheus.DefaultRegisterer)
	})
	return registry
}

// NewRegistry creates a registry whose collectors are registered with reg.
// Tests use it with a private prometheus.Registry.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return newRegistry(reg)
}

func newRegistry(reg prometheus.Registerer) *Registry {
	f := promauto.With(reg)
	r := &Registry{}

	r.ModuleWrites = f.NewCounterVec(prometheus.CounterOpts{
		Name: "fwrule_module_writes_total",
		Help: "Values written to rule modules, by kind and validation result",
	}, []string{"kind", "result"})

	r.Exports = f.NewCounterVec(prometheus.CounterOpts{
		Name: "fwrule_exports_total",
		Help: "Rule exports, by renderer shape and result",
	}, []string{"shape", "result"})

	r.LookupDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fwrule_lookup_seconds",
		Help:    "Duration of system-state lookups",
		Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2, 5},
	}, []string{"source"})

	r.LookupErrors = f.NewCounterVec(prometheus.CounterOpts{
		Name: "fwrule_lookup_errors_total",
		Help: "Failed system-state lookups",
	}, []string{"source"})

	return r
}

// ObserveLookup records the duration and outcome of a lookup against source.
func (r *Registry) ObserveLookup(source string, start time.Time, err error) {
	r.LookupDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		r.LookupErrors.WithLabelValues(source).Inc()
	}
}

// WriteTextfile writes the default registry in the text exposition format,
// for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
