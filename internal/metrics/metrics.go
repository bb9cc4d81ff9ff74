package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ObservationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "observations_total", Help: "Market observations persisted"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Market orders attempted"},
		[]string{"source", "outcome"},
	)
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Strategy signals emitted"},
		[]string{"action"},
	)
)

func init() {
	prometheus.MustRegister(ObservationsTotal, OrdersTotal, SignalsTotal)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
