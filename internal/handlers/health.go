package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Veysel440/go-ip-allowlist/internal/allowlist"
	apperr "github.com/Veysel440/go-ip-allowlist/internal/errors"
	"github.com/Veysel440/go-ip-allowlist/internal/middleware"
)

type Health struct {
	Env  string
	List *allowlist.List
	Log  *slog.Logger
}

func (h Health) Live(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }

// Ready fails when nothing could ever be let through.
func (h Health) Ready(w http.ResponseWriter, r *http.Request) {
	if h.List.Len() == 0 {
		apperr.Write(w, h.Log, r, apperr.Unavailable)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h Health) Info(w http.ResponseWriter, r *http.Request) {
	ip, _ := middleware.ClientIPFrom(r.Context())
	apperr.WriteJSON(w, http.StatusOK, map[string]any{
		"ok": true, "env": h.Env, "allowlist_size": h.List.Len(), "ip": ip,
	})
}
