package middleware

import (
	"Classifieds/internal/metrics"
	"net/http"
)

// WithMetrics считает ответы по коду статуса.
func WithMetrics(collector metrics.MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lw, data := wrapResponse(w)
			next.ServeHTTP(lw, r)
			collector.RecordHTTPStatus(data.status)
		})
	}
}
