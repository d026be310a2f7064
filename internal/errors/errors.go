package errors

import (
	"encoding/json"
	stderrs "errors"
	"log/slog"
	"net/http"
	"sort"
)

type AppError struct {
	Status  int
	Message string
	// Fields are merged into the response body next to "error".
	Fields map[string]any
	Err    error
	// Stack is logged, never sent.
	Stack string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func E(status int, msg string, cause error, fields map[string]any) *AppError {
	return &AppError{Status: status, Message: msg, Fields: fields, Err: cause}
}

var (
	NotFound         = &AppError{Status: http.StatusNotFound, Message: "Not found"}
	MethodNotAllowed = &AppError{Status: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	Unavailable      = &AppError{Status: http.StatusServiceUnavailable, Message: "Service unavailable"}
	Internal         = &AppError{Status: http.StatusInternalServerError, Message: "Server error"}
)

// Forbidden is the allowlist rejection. ip is reported as given; pass nil
// to emit JSON null.
func Forbidden(ip any) *AppError {
	return &AppError{
		Status:  http.StatusForbidden,
		Message: "Forbidden: IP not allowed",
		Fields:  map[string]any{"ip": ip, "allowed": false},
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Write(w http.ResponseWriter, log *slog.Logger, r *http.Request, err error) {
	var app *AppError
	if !stderrs.As(err, &app) {
		app = E(Internal.Status, Internal.Message, err, nil)
	}
	body := make(map[string]any, len(app.Fields)+1)
	for k, v := range app.Fields {
		body[k] = v
	}
	body["error"] = app.Message
	WriteJSON(w, app.Status, body)

	if log == nil {
		log = slog.Default()
	}
	lvl := slog.LevelError
	if app.Status < 500 {
		lvl = slog.LevelWarn
	}
	cause := ""
	if app.Err != nil {
		cause = app.Err.Error()
	}
	attrs := []slog.Attr{
		slog.Int("status", app.Status),
		slog.String("rid", r.Header.Get("X-Request-ID")),
		slog.String("path", r.URL.Path),
		slog.String("cause", cause),
	}
	keys := make([]string, 0, len(app.Fields))
	for k := range app.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, app.Fields[k]))
	}
	if app.Stack != "" {
		attrs = append(attrs, slog.String("stack", app.Stack))
	}
	log.LogAttrs(r.Context(), lvl, "api_error", attrs...)
}
