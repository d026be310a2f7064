package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Veysel440/go-ip-allowlist/internal/allowlist"
	"github.com/Veysel440/go-ip-allowlist/internal/config"
	apperr "github.com/Veysel440/go-ip-allowlist/internal/errors"
	"github.com/Veysel440/go-ip-allowlist/internal/handlers"
	"github.com/Veysel440/go-ip-allowlist/internal/metrics"
	"github.com/Veysel440/go-ip-allowlist/internal/middleware"
	"github.com/Veysel440/go-ip-allowlist/internal/openapi"
	otelsetup "github.com/Veysel440/go-ip-allowlist/internal/trace"
)

const serviceName = "ip-allowlist"

type Server struct {
	cfg   config.Config
	list  *allowlist.List
	mx    *metrics.Registry
	log   *slog.Logger
	trace func(context.Context) error
}

func New(cfg config.Config, log *slog.Logger) *Server {
	shutdown, err := otelsetup.Setup(context.Background(), cfg.OTELEndpoint, cfg.OTELSample, serviceName)
	if err != nil {
		log.Warn("tracing disabled", slog.Any("err", err))
		shutdown = func(context.Context) error { return nil }
	}
	return &Server{
		cfg:   cfg,
		list:  cfg.List(),
		mx:    metrics.New(),
		log:   log,
		trace: shutdown,
	}
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		otelhttp.NewMiddleware(serviceName),
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.RecoverJSON(s.log),
		s.mx.MW,
		middleware.Logger(s.log, s.cfg.TrustProxy),
		middleware.Allowlist{
			List:       s.list,
			TrustProxy: s.cfg.TrustProxy,
			Log:        s.log,
			Mx:         s.mx,
		}.Middleware,
		middleware.CORS(s.cfg.CorsOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, s.log, r, apperr.NotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, s.log, r, apperr.MethodNotAllowed)
	})

	wh := handlers.Welcome{Log: s.log, TrustProxy: s.cfg.TrustProxy}
	r.Get("/", wh.Index)
	r.Get("/api/hello", wh.Hello)

	hh := handlers.Health{Env: s.cfg.Env, List: s.list, Log: s.log}
	r.Get("/healthz", hh.Live)
	r.Get("/readyz", hh.Ready)
	r.Get("/info", hh.Info)

	r.Handle("/metrics", s.mx.Handler())

	if s.cfg.Env != "prod" {
		r.Handle("/openapi.yaml", openapi.Spec())
		r.Handle("/docs", openapi.UI())
	}

	return r
}

func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
}

// Allowlist exposes the normalized entries for startup logging.
func (s *Server) Allowlist() []string { return s.list.Entries() }

// Shutdown flushes pending spans.
func (s *Server) Shutdown(ctx context.Context) error { return s.trace(ctx) }
