// Package fibremetrics is a Prometheus collector pair implementing
// fibre.Observer and fibre.TickObserver, built with the same
// namespace/subsystem/const-labels option pattern and promauto factory bound
// to a registry used elsewhere in this module for Prometheus wiring.
package fibremetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fibretree/fibre"
)

// Config configures the metrics observer.
type Config struct {
	Namespace   string
	Subsystem   string
	ConstLabels prometheus.Labels
	Buckets     []float64
	Registry    prometheus.Registerer
}

// Option configures a Config.
type Option func(*Config)

func WithNamespace(namespace string) Option { return func(c *Config) { c.Namespace = namespace } }
func WithSubsystem(subsystem string) Option { return func(c *Config) { c.Subsystem = subsystem } }
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) { c.ConstLabels = labels }
}
func WithBuckets(buckets []float64) Option { return func(c *Config) { c.Buckets = buckets } }
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = registry }
}

func defaultConfig() Config {
	return Config{
		Namespace: "fibre",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer counts mounts, commits, and unmounts as they happen (implementing
// fibre.Observer), and separately samples tick interval and tree shape at
// tick boundaries (implementing fibre.TickObserver). The two halves are
// deliberately distinct: per-fibre event counts cannot be reconstructed from
// a whole-tree walk, and tree size/tick timing cannot be reconstructed from
// individual events.
type Observer struct {
	nodeEvents    *prometheus.CounterVec
	tickDuration  prometheus.Histogram
	treeSize      prometheus.Gauge
	failedNodes   prometheus.Gauge
	lastTickStart time.Time
}

// New constructs an Observer, registering its collectors against cfg's
// registry (default prometheus.DefaultRegisterer).
func New(opts ...Option) *Observer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Observer{
		nodeEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "node_events_total",
			Help:        "Total fibre lifecycle events, by event (mount, commit, unmount).",
			ConstLabels: cfg.ConstLabels,
		}, []string{"event"}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "tick_interval_seconds",
			Help:        "Elapsed time between consecutive committed ticks.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}),
		treeSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "tree_size",
			Help:        "Number of live fibres as of the last committed tick.",
			ConstLabels: cfg.ConstLabels,
		}),
		failedNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "failed_nodes",
			Help:        "Number of fibres in Failed status as of the last committed tick.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// OnMount implements fibre.Observer.
func (o *Observer) OnMount(_ fibre.KeyPath, _ string, _ fibre.Result) {
	o.nodeEvents.WithLabelValues("mount").Inc()
}

// OnCommit implements fibre.Observer. Only called for a commit whose result
// changed, so this never double-counts a memoized re-run.
func (o *Observer) OnCommit(_ fibre.KeyPath, _ string, _ fibre.Result) {
	o.nodeEvents.WithLabelValues("commit").Inc()
}

// OnUnmount implements fibre.Observer.
func (o *Observer) OnUnmount(_ fibre.KeyPath, _ string, _ fibre.Result) {
	o.nodeEvents.WithLabelValues("unmount").Inc()
}

// OnTickCommitted implements fibre.TickObserver: it times the gap since the
// previous committed tick and samples the resulting tree's size and failure
// count.
func (o *Observer) OnTickCommitted(_ uint64, root *fibre.Fibre) {
	if !o.lastTickStart.IsZero() {
		o.tickDuration.Observe(time.Since(o.lastTickStart).Seconds())
	}
	o.lastTickStart = time.Now()

	count := 0
	failures := 0
	fibre.Walk(root, func(f *fibre.Fibre) bool {
		count++
		if f.Status() == fibre.StatusFailed {
			failures++
		}
		return true
	})
	o.treeSize.Set(float64(count))
	o.failedNodes.Set(float64(failures))
}
