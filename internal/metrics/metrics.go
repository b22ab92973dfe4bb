// Package metrics exports scan loop counters and stage latencies to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records scan loop activity in its own registry.
type Metrics struct {
	registry *prometheus.Registry

	framesTotal   *prometheus.CounterVec
	decodesTotal  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New creates a registry with the scanner metrics and the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		framesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barscan_frames_total",
				Help: "Total number of frames processed by outcome",
			},
			[]string{"outcome"}, // outcome: decoded, not_found, empty, unsupported, decode_error, unexpected
		),
		decodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "barscan_decodes_total",
				Help: "Total number of decoded symbols by symbology",
			},
			[]string{"format"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "barscan_stage_duration_seconds",
				Help:    "Per-frame pipeline stage duration in seconds",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
			},
			[]string{"stage"}, // stage: read, luminance, binarize, decode, present, iteration
		),
	}
}

// ObserveFrame counts one finished iteration.
func (m *Metrics) ObserveFrame(outcome string) {
	m.framesTotal.WithLabelValues(outcome).Inc()
}

// ObserveDecode counts one decoded symbol.
func (m *Metrics) ObserveDecode(format string) {
	m.decodesTotal.WithLabelValues(format).Inc()
}

// ObserveStage records how long one stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return m.serve(ctx, ln, logger)
}

func (m *Metrics) serve(ctx context.Context, ln net.Listener, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listener started", "addr", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
