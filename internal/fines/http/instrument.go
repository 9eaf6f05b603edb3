package http

import (
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter

	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// instrument records request latency against the route pattern rather than
// the raw path, which keeps the label set bounded.
func (r *Router) instrument(route string, next http.Handler) http.Handler {
	if r.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		r.Metrics.ObserveHTTP(route, req.Method, rec.status, start)
	})
}
