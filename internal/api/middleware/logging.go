package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
)

type requestLogKey struct{}

// requestLog collects what the access log line needs from deeper in the chain.
// Only the request the mux matched knows its pattern and path values.
type requestLog struct {
	route        string
	restaurantID string
}

// noteRoute records r's matched route on the access log entry in its context
func noteRoute(r *http.Request) {
	entry, ok := r.Context().Value(requestLogKey{}).(*requestLog)
	if !ok || r.Pattern == "" {
		return
	}
	entry.route = r.Pattern
	entry.restaurantID = r.PathValue("restaurantId")
}

// LoggingMiddleware writes one access log line per request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		entry := &requestLog{}
		r = r.WithContext(context.WithValue(r.Context(), requestLogKey{}, entry))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)
		noteRoute(r)

		logger := observability.LoggerFromContext(r.Context())
		event := levelFor(logger, rec.status).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int64("bytes", rec.written).
			Dur("duration", time.Since(start))
		if entry.route != "" {
			event = event.Str("route", entry.route)
		}
		if entry.restaurantID != "" {
			event = event.Str("restaurant_id", entry.restaurantID)
		}
		event.Msg("HTTP request")
	})
}

func levelFor(logger *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return logger.Error()
	case status >= http.StatusBadRequest:
		return logger.Warn()
	}
	return logger.Info()
}

// statusRecorder remembers the status and body size written through it.
// It forwards Flush so event streams keep working behind it.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.written += int64(n)
	return n, err
}

func (rec *statusRecorder) Flush() {
	if flusher, ok := rec.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
