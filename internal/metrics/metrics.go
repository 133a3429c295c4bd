// Package metrics exposes run progress as Prometheus metrics. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rase/internal/propagate"
	"rase/internal/window"
)

const namespace = "rase"

type Metrics struct {
	reg *prometheus.Registry

	reads       *prometheus.CounterVec
	alignments  prometheus.Counter
	assignments prometheus.Counter
	snapshots   *prometheus.CounterVec
	errors      *prometheus.CounterVec
	windowEnd   prometheus.Gauge
	lastRead    prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		reads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Reads processed, by assignment status.",
		}, []string{"status"}),
		alignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alignments_total",
			Help:      "Alignments of assigned reads, before propagation.",
		}),
		assignments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Leaf assignments of assigned reads, after propagation.",
		}),
		snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_total",
			Help:      "Snapshots emitted, by kind.",
		}, []string{"kind"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Run failures, by error code.",
		}, []string{"code"}),
		windowEnd: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "window_end_seconds",
			Help:      "End of the last closed window, read-clock seconds.",
		}),
		lastRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_read_timestamp_seconds",
			Help:      "Acquisition time of the last read counted.",
		}),
	}
	m.reg.MustRegister(
		m.reads, m.alignments, m.assignments, m.snapshots, m.errors, m.windowEnd, m.lastRead,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveExpansion counts one read handed to the aggregator.
func (m *Metrics) ObserveExpansion(e propagate.Expansion) {
	if m == nil {
		return
	}
	if e.Assigned {
		m.reads.WithLabelValues("assigned").Inc()
		m.alignments.Add(float64(e.Alignments))
		m.assignments.Add(float64(e.Leaves))
	} else {
		m.reads.WithLabelValues("unassigned").Inc()
	}
	m.lastRead.Set(float64(e.Timestamp))
}

// ObserveSnapshot counts one emitted snapshot.
func (m *Metrics) ObserveSnapshot(s window.Snapshot) {
	if m == nil {
		return
	}
	m.snapshots.WithLabelValues(string(s.Kind)).Inc()
	if s.Kind == window.KindWindow {
		m.windowEnd.Set(float64(s.End))
	}
}

// ObserveError counts a failed run.
func (m *Metrics) ObserveError(code string) {
	if m == nil || code == "" {
		return
	}
	m.errors.WithLabelValues(code).Inc()
}

// Handler routes /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	return r
}

// Serve listens on addr until ctx ends or stop is called. The returned
// address is the bound one, which differs from addr when it asks for port 0.
func (m *Metrics) Serve(ctx context.Context, addr string) (bound string, stop func(), err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{Handler: m.Handler(), ReadHeaderTimeout: 5 * time.Second}
	served := make(chan struct{})
	// A failing endpoint never fails the run.
	go func() {
		defer close(served)
		_ = srv.Serve(ln)
	}()
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer scancel()
		_ = srv.Shutdown(sctx)
	}()
	return ln.Addr().String(), func() {
		cancel()
		<-served
	}, nil
}
