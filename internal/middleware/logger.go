package middleware

import (
	"net/http"
	"time"

	"github.com/apex/log"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one apex/log entry per request. Bodies are never
// logged.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		entry := log.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  chimiddleware.GetReqID(r.Context()),
			"remote_addr": r.RemoteAddr,
		})

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	})
}
