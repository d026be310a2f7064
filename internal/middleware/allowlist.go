package middleware

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Veysel440/go-ip-allowlist/internal/allowlist"
	apperr "github.com/Veysel440/go-ip-allowlist/internal/errors"
	"github.com/Veysel440/go-ip-allowlist/internal/metrics"
)

type Allowlist struct {
	List       *allowlist.List
	TrustProxy bool
	Log        *slog.Logger
	Mx         *metrics.Registry
}

func (a Allowlist) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := ClientIP(r, a.TrustProxy)
		ip := allowlist.Normalize(raw)

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("client.address", ip))

		if a.List.Contains(ip) {
			a.Mx.Decision(true)
			next.ServeHTTP(w, r.WithContext(withClientIP(r.Context(), ip)))
			return
		}
		a.Mx.Decision(false)

		var reported any
		switch {
		case ip != "":
			reported = ip
		case raw != "":
			reported = raw
		}
		apperr.Write(w, a.Log, r, apperr.Forbidden(reported))
	})
}
