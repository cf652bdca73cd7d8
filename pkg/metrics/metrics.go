// Package metrics exports render statistics to Prometheus.
//
// A Recorder implements reconcile.Observer:
//
//	rec := metrics.New(metrics.WithRegistry(reg))
//	r := reconcile.New(doc, reconcile.WithObserver(rec))
//
// Metrics collected (namespace "vtree" by default):
//   - vtree_renders_total: renders by status (ok, error)
//   - vtree_render_duration_seconds: render duration histogram
//   - vtree_render_mutations: histogram of surface mutations per render
//   - vtree_mutations_total: surface mutations by kind
//   - vtree_render_errors_total: reported failures by error code
//   - vtree_mirror_clients: connected mirror clients
//   - vtree_mirror_broadcasts_total: mutations broadcast to mirror clients
//   - vtree_mirror_dropped_total: mirror clients dropped for being slow
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/reconcile"
)

// Config configures a Recorder.
type Config struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Recorder.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Recorder holds the render and mirror metrics.
type Recorder struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	renderMutations  prometheus.Histogram
	mutationsTotal   *prometheus.CounterVec
	renderErrors     *prometheus.CounterVec
	mirrorClients    prometheus.Gauge
	mirrorBroadcasts prometheus.Counter
	mirrorDropped    prometheus.Counter
}

// New registers the metrics and returns a Recorder. Registering twice with
// the same registry panics, as with promauto.
func New(opts ...Option) *Recorder {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Recorder{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of renders by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		renderMutations: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_mutations",
			Help:        "Surface mutations issued per render",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mutations_total",
			Help:        "Total surface mutations by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		renderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_errors_total",
			Help:        "Total reported render failures by error code",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		mirrorClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mirror_clients",
			Help:        "Number of connected mirror clients",
			ConstLabels: config.ConstLabels,
		}),

		mirrorBroadcasts: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mirror_broadcasts_total",
			Help:        "Total mutations broadcast to mirror clients",
			ConstLabels: config.ConstLabels,
		}),

		mirrorDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "mirror_dropped_total",
			Help:        "Total mirror clients dropped because they fell behind",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// ObserveRender implements reconcile.Observer.
func (r *Recorder) ObserveRender(stats reconcile.Stats, elapsed time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		for _, code := range errorCodes(err) {
			r.renderErrors.WithLabelValues(code).Inc()
		}
	}
	r.rendersTotal.WithLabelValues(status).Inc()
	r.renderDuration.Observe(elapsed.Seconds())
	r.renderMutations.Observe(float64(stats.Mutations()))

	for kind, n := range map[string]int{
		"create":          stats.Created,
		"insert":          stats.Inserted,
		"remove":          stats.Removed,
		"move":            stats.Moved,
		"text":            stats.TextUpdates,
		"set_attr":        stats.AttrsSet,
		"remove_attr":     stats.AttrsRemoved,
		"set_property":    stats.PropsWritten,
		"add_listener":    stats.ListenersAdded,
		"remove_listener": stats.ListenersRemoved,
	} {
		if n > 0 {
			r.mutationsTotal.WithLabelValues(kind).Add(float64(n))
		}
	}
}

// errorCodes flattens joined errors into their codes. Uncoded errors are
// counted as "unknown" to keep label cardinality bounded.
func errorCodes(err error) []string {
	var errs []error
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	} else {
		errs = []error{err}
	}
	codes := make([]string, 0, len(errs))
	for _, e := range errs {
		var ve *vterrors.Error
		if errors.As(e, &ve) && ve.Code != "" {
			codes = append(codes, ve.Code)
		} else {
			codes = append(codes, "unknown")
		}
	}
	return codes
}

// ClientConnected records a mirror client connecting.
func (r *Recorder) ClientConnected() {
	r.mirrorClients.Inc()
}

// ClientDisconnected records a mirror client leaving.
func (r *Recorder) ClientDisconnected() {
	r.mirrorClients.Dec()
}

// Broadcast records one mutation sent to mirror clients.
func (r *Recorder) Broadcast() {
	r.mirrorBroadcasts.Inc()
}

// Dropped records a slow mirror client being dropped.
func (r *Recorder) Dropped() {
	r.mirrorDropped.Inc()
}
