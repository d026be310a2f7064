package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Veysel440/go-ip-allowlist/internal/config"
	"github.com/Veysel440/go-ip-allowlist/internal/logging"
)

func testConfig() config.Config {
	return config.Config{
		Env:         "test",
		Port:        "0",
		Allowlist:   []string{"127.0.0.1", "::1", "::ffff:127.0.0.1"},
		TrustProxy:  true,
		CorsOrigins: []string{"*"},
		LogLevel:    "info",
		LogFormat:   "json",
	}
}

func do(t *testing.T, h http.Handler, method, path, remote, xff string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func body(rec *httptest.ResponseRecorder) string {
	return strings.TrimSpace(rec.Body.String())
}

func TestRoutes_AllowedExactBodies(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	want := map[string]string{
		"/":          `{"message":"Welcome! Your IP passed the whitelist check."}`,
		"/api/hello": `{"message":"Hello from a protected API route."}`,
	}
	for _, remote := range []string{"127.0.0.1:40000", "[::1]:40000", "[::ffff:127.0.0.1]:40000"} {
		for path, exp := range want {
			rec := do(t, h, "GET", path, remote, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("%s %s: code %d", remote, path, rec.Code)
			}
			if got := body(rec); got != exp {
				t.Fatalf("%s %s: body %s", remote, path, got)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Fatal("request id header missing")
			}
		}
	}
}

func TestRoutes_DeniedEverywhere(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	for _, path := range []string{"/", "/api/hello", "/healthz", "/metrics", "/docs", "/does-not-exist"} {
		rec := do(t, h, "GET", path, "192.0.2.10:5000", "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s: want 403, got %d", path, rec.Code)
		}
		var m map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
			t.Fatal(err)
		}
		if m["error"] != "Forbidden: IP not allowed" || m["ip"] != "192.0.2.10" || m["allowed"] != false {
			t.Fatalf("%s: body %v", path, m)
		}
	}
}

func TestRoutes_ForwardedFor(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	if rec := do(t, h, "GET", "/", "10.0.0.2:80", "127.0.0.1, 10.0.0.2"); rec.Code != http.StatusOK {
		t.Fatalf("left-most trusted hop should pass, got %d", rec.Code)
	}
	if rec := do(t, h, "GET", "/", "127.0.0.1:80", "203.0.113.9"); rec.Code != http.StatusForbidden {
		t.Fatalf("forwarded client should be denied, got %d", rec.Code)
	}

	cfg := testConfig()
	cfg.TrustProxy = false
	h = New(cfg, logging.Discard()).router()
	if rec := do(t, h, "GET", "/", "127.0.0.1:80", "203.0.113.9"); rec.Code != http.StatusOK {
		t.Fatalf("untrusted header must be ignored, got %d", rec.Code)
	}
}

func TestRoutes_NoIP(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	rec := do(t, h, "GET", "/api/hello", "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("got %d", rec.Code)
	}
	var m map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &m)
	if v, ok := m["ip"]; !ok || v != nil {
		t.Fatalf("ip should be null: %v", m)
	}
}

func TestRoutes_NotFoundAndMethod(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	rec := do(t, h, "GET", "/nope", "127.0.0.1:1", "")
	if rec.Code != http.StatusNotFound || body(rec) != `{"error":"Not found"}` {
		t.Fatalf("404: %d %s", rec.Code, body(rec))
	}
	rec = do(t, h, "POST", "/api/hello", "127.0.0.1:1", "")
	if rec.Code != http.StatusMethodNotAllowed || body(rec) != `{"error":"Method not allowed"}` {
		t.Fatalf("405: %d %s", rec.Code, body(rec))
	}
}

func TestRoutes_Ops(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	if rec := do(t, h, "GET", "/healthz", "127.0.0.1:1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("healthz %d", rec.Code)
	}
	do(t, h, "GET", "/", "192.0.2.1:1", "")
	rec := do(t, h, "GET", "/metrics", "127.0.0.1:1", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `ip_allowlist_decisions_total{result="denied"} 1`) {
		t.Fatalf("metrics missing denied decision:\n%s", rec.Body.String())
	}
	if rec := do(t, h, "GET", "/openapi.yaml", "127.0.0.1:1", ""); rec.Code != http.StatusOK {
		t.Fatalf("openapi %d", rec.Code)
	}

	cfg := testConfig()
	cfg.Env = "prod"
	h = New(cfg, logging.Discard()).router()
	if rec := do(t, h, "GET", "/docs", "127.0.0.1:1", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("docs must be hidden in prod, got %d", rec.Code)
	}
}

func TestHTTPServer_UsesPort(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "3000"
	if addr := New(cfg, logging.Discard()).HTTPServer().Addr; addr != ":3000" {
		t.Fatalf("addr %q", addr)
	}
}

func TestRoutes_PanicThroughFullChain(t *testing.T) {
	r := New(testConfig(), logging.Discard()).router()
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("handler blew up") })

	rec := do(t, r, "GET", "/boom", "127.0.0.1:1", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("want 500, got %d", rec.Code)
	}
	if got := body(rec); got != `{"error":"Server error"}` {
		t.Fatalf("body %s", got)
	}
	if rec.Header().Get("X-Request-ID") == "" || rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("outer middleware headers missing on 500")
	}

	if rec := do(t, r, "GET", "/boom", "192.0.2.3:1", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("allowlist must run before the handler, got %d", rec.Code)
	}
}

func TestRoutes_InfoReportsCallerIP(t *testing.T) {
	h := New(testConfig(), logging.Discard()).router()
	rec := do(t, h, "GET", "/info", "[::ffff:127.0.0.1]:1", "")
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m["ip"] != "127.0.0.1" || m["allowlist_size"] != float64(2) {
		t.Fatalf("info %v", m)
	}
}
