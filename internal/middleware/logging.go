package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger

// SetLogger задаёт логгер для middleware.
func SetLogger(l *zap.SugaredLogger) {
	logger = l
}

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

func wrapResponse(w http.ResponseWriter) (*loggingResponseWriter, *responseData) {
	data := &responseData{status: http.StatusOK}
	return &loggingResponseWriter{ResponseWriter: w, responseData: data}, data
}

// WithLogging пишет в лог метод, путь, статус, размер и длительность запроса.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw, data := wrapResponse(w)
		next.ServeHTTP(lw, r)

		if logger == nil {
			return
		}
		logger.Infow("request",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.RequestURI,
			"status", data.status,
			"size", data.size,
			"duration", time.Since(start),
		)
	})
}
