package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const ReqIDHeader = "X-Request-ID"

const maxReqIDLen = 64

func newReqID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// validReqID accepts caller-supplied ids that are short and log-safe.
func validReqID(id string) bool {
	if id == "" || len(id) > maxReqIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-' || c == '_' || c == '.') {
			return false
		}
	}
	return true
}

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(ReqIDHeader)
		if !validReqID(id) {
			id = newReqID()
		}
		w.Header().Set(ReqIDHeader, id)
		r.Header.Set(ReqIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
