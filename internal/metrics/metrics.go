package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the monitor service.
type Metrics struct {
	RequestsTotal    *prometheus.CounterVec // labels: endpoint
	RequestDur       prometheus.Histogram
	StoreErrorsTotal prometheus.Counter
	WSClients        prometheus.Gauge
	ControlTotal     *prometheus.CounterVec // labels: action
}

// New registers all monitor metrics with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg. Tests pass a fresh registry so
// repeated setup never double-registers.
func NewWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_requests_total",
			Help: "API requests served, by endpoint",
		}, []string{"endpoint"}),
		RequestDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "monitor_request_duration_seconds",
			Help:    "API request latency (store query included)",
			Buckets: prometheus.DefBuckets,
		}),
		StoreErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "monitor_store_errors_total",
			Help: "Store open/query failures surfaced to handlers",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "monitor_ws_clients",
			Help: "Currently connected live-stats WebSocket clients",
		}),
		ControlTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monitor_control_total",
			Help: "Control commands acknowledged, by action",
		}, []string{"action"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDur,
		m.StoreErrorsTotal,
		m.WSClients,
		m.ControlTotal,
	)

	return m
}

// Server runs an HTTP server exposing /metrics.
type Server struct {
	srv *http.Server
}

// NewServer creates the Prometheus scrape server.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		srv: &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[metrics] server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[metrics] server error: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
