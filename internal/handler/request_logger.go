package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const requestStartContextKey = contextKey("request_start")

// RequestLogger logs one line per request and stamps the start time into the
// context for handlers that measure their own duration.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(context.WithValue(r.Context(), requestStartContextKey, start))

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				entry := logger.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"remote_ip":  r.RemoteAddr,
					"status":     status,
					"bytes":      ww.BytesWritten(),
					"latency_ms": float64(time.Since(start).Microseconds()) / 1000,
				})
				if status >= http.StatusInternalServerError {
					entry.Warn("HTTP request completed")
				} else {
					entry.Info("HTTP request completed")
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// requestStartFromContext falls back to now when RequestLogger is not mounted.
func requestStartFromContext(ctx context.Context) time.Time {
	if start, ok := ctx.Value(requestStartContextKey).(time.Time); ok {
		return start
	}
	return time.Now()
}
