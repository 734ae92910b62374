// Package metrics exposes Prometheus metrics for the outbound API clients
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "meteo_terminal"

// Collector holds the client metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CacheHitsTotal  *prometheus.CounterVec
	CacheMissTotal  *prometheus.CounterVec
}

// NewCollector registers the metrics on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "client_requests_total",
				Help:      "Total number of outbound API requests by client and status",
			},
			[]string{"client", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "client_request_duration_seconds",
				Help:      "Outbound API request duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"client"},
		),
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_hits_total",
				Help:      "Responses served from the in-memory cache",
			},
			[]string{"client"},
		),
		CacheMissTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "cache_misses_total",
				Help:      "Lookups that had to reach the remote API",
			},
			[]string{"client"},
		),
	}
}

// ObserveRequest records one finished request. status is the HTTP status
// code, or 0 when the request never got a response.
func (c *Collector) ObserveRequest(client string, status int, d time.Duration) {
	if c == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	c.RequestsTotal.WithLabelValues(client, label).Inc()
	c.RequestDuration.WithLabelValues(client).Observe(d.Seconds())
}

// CacheHit counts a cache hit for client
func (c *Collector) CacheHit(client string) {
	if c == nil {
		return
	}
	c.CacheHitsTotal.WithLabelValues(client).Inc()
}

// CacheMiss counts a cache miss for client
func (c *Collector) CacheMiss(client string) {
	if c == nil {
		return
	}
	c.CacheMissTotal.WithLabelValues(client).Inc()
}

// Handler serves the gatherer's metrics in the Prometheus text format
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(g))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
