package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	apperr "github.com/Veysel440/go-ip-allowlist/internal/errors"
)

func RecoverJSON(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				e := apperr.E(apperr.Internal.Status, apperr.Internal.Message, fmt.Errorf("panic: %v", rec), nil)
				e.Stack = string(debug.Stack())
				apperr.Write(w, log, r, e)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
