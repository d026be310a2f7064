package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

const ForwardedForHeader = "X-Forwarded-For"

type ctxKey string

const clientIPKey ctxKey = "client_ip"

// ClientIP resolves the raw client address. Behind a trusted proxy the
// left-most non-empty X-Forwarded-For hop wins; otherwise the socket peer.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get(ForwardedForHeader); xff != "" {
			for _, hop := range strings.Split(xff, ",") {
				if hop = strings.TrimSpace(hop); hop != "" {
					return hop
				}
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func withClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIPFrom returns the normalized IP the allowlist decided on.
func ClientIPFrom(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(clientIPKey).(string)
	return ip, ok
}
