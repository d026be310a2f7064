package handlers

import (
	"log/slog"
	"net/http"

	apperr "github.com/Veysel440/go-ip-allowlist/internal/errors"
	"github.com/Veysel440/go-ip-allowlist/internal/middleware"
)

const (
	WelcomeMessage = "Welcome! Your IP passed the whitelist check."
	HelloMessage   = "Hello from a protected API route."
)

type message struct {
	Message string `json:"message"`
}

type Welcome struct {
	Log        *slog.Logger
	TrustProxy bool
}

func (h Welcome) Index(w http.ResponseWriter, r *http.Request) {
	apperr.WriteJSON(w, http.StatusOK, message{WelcomeMessage})
}

func (h Welcome) Hello(w http.ResponseWriter, r *http.Request) {
	// raw address, before ::ffff: stripping
	ip := middleware.ClientIP(r, h.TrustProxy)
	h.Log.Info("request ip", slog.String("ip", ip), slog.String("rid", r.Header.Get(middleware.ReqIDHeader)))
	apperr.WriteJSON(w, http.StatusOK, message{HelloMessage})
}
