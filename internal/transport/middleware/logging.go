package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/idea-portal/pkg/logger"
	"github.com/go-chi/chi/middleware"
)

const (
	redacted = "[REDACTED]"
	// maxLoggedBody caps how much of an idea pitch or comment lands in the log.
	maxLoggedBody = 2048
)

// redactedKeys match JSON keys and header names by substring: signup codes,
// passwords, bearer tickets and cookies.
var redactedKeys = []string{
	"password",
	"otp",
	"token",
	"ticket",
	"authorization",
	"cookie",
	"secret",
}

// quietPrefixes are polled by probes and browsers; they log at debug.
var quietPrefixes = []string{
	"/api/v1/health",
	"/api/v1/ping",
	"/swagger/",
	"/openapi.yml",
}

// LoggingMiddleware logs one line per request and one per response. Success
// bodies stay out of the log since they carry tickets and idea content; error
// envelopes are kept.
func LoggingMiddleware(base *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()
			lg := logger.FromOr(ctx, base).With("request_id", middleware.GetReqID(ctx))

			level := slog.LevelInfo
			if isQuiet(r.URL.Path) {
				level = slog.LevelDebug
			}

			lg.Log(ctx, level, "incoming request",
				"method", r.Method,
				"path", r.URL.Path,
				"query", r.URL.RawQuery,
				"remote_addr", r.RemoteAddr,
				"headers", redactHeaders(r.Header),
				"body", redactBody(readBody(r)),
			)

			var out bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&out)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"response_size", ww.BytesWritten(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
				attrs = append(attrs, "body", redactBody(out.Bytes()))
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
				attrs = append(attrs, "body", redactBody(out.Bytes()))
			}
			lg.Log(ctx, level, "response", attrs...)
		})
	}
}

func isQuiet(path string) bool {
	for _, p := range quietPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func isRedacted(name string) bool {
	name = strings.ToLower(name)
	for _, k := range redactedKeys {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// readBody drains the request body and puts an identical reader back.
func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if isRedacted(name) {
			out[name] = redacted
			continue
		}
		out[name] = strings.Join(values, ", ")
	}
	return out
}

func redactBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		// Not JSON. Nothing can be picked out of it safely.
		return "[NON-JSON BODY]"
	}
	b, err := json.Marshal(redactValue(doc))
	if err != nil {
		return "[UNPRINTABLE BODY]"
	}
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "...(truncated)"
	}
	return string(b)
}

func redactValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			if isRedacted(k) {
				t[k] = redacted
				continue
			}
			t[k] = redactValue(inner)
		}
		return t
	case []any:
		for i := range t {
			t[i] = redactValue(t[i])
		}
		return t
	default:
		return v
	}
}
