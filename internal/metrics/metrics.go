package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg       *prometheus.Registry
	HttpDur   *prometheus.HistogramVec
	Decisions *prometheus.CounterVec
}

func New() *Registry {
	r := prometheus.NewRegistry()
	httpDur := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ip_allowlist_decisions_total",
			Help: "Allowlist decisions by result",
		},
		[]string{"result"},
	)

	r.MustRegister(
		httpDur, decisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Registry{reg: r, HttpDur: httpDur, Decisions: decisions}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Decision counts one allowlist outcome.
func (r *Registry) Decision(allowed bool) {
	if r == nil {
		return
	}
	res := "denied"
	if allowed {
		res = "allowed"
	}
	r.Decisions.WithLabelValues(res).Inc()
}

func (r *Registry) MW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := &wrap{ResponseWriter: w, status: 200}
		next.ServeHTTP(ww, req)
		r.HttpDur.WithLabelValues(route(req), req.Method, strconv.Itoa(ww.status)).
			Observe(time.Since(start).Seconds())
	})
}

func (r *Registry) Reg() *prometheus.Registry { return r.reg }

// route keeps label cardinality bounded: the chi pattern when one matched,
// otherwise a fixed placeholder.
func route(req *http.Request) string {
	if rc := chi.RouteContext(req.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

type wrap struct {
	http.ResponseWriter
	status int
}

func (w *wrap) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
