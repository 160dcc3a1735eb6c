package middleware

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
)

// ObservabilityMiddleware traces each request and records request metrics.
// The span is renamed to the matched route once the mux has run.
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			req := r.WithContext(ctx)
			start := time.Now()

			next.ServeHTTP(rec, req)
			noteRoute(req)

			route := req.Pattern
			if route == "" {
				route = "unmatched"
			} else {
				span.SetName(route)
			}
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rec.status, time.Since(start))
			attrs := []attribute.KeyValue{
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", rec.status),
			}
			if id := req.PathValue("restaurantId"); id != "" {
				attrs = append(attrs, attribute.String("restaurant.id", id))
			}
			observability.SetSpanAttributes(span, attrs...)
		})
	}
}
