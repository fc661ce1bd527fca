package middleware

import (
	"log/slog"
	"net/http"

	"github.com/AdamBeresnev/tournament-scheduler/internal/httputil"
	"golang.org/x/time/rate"
)

// RateLimit throttles mutating requests to perSecond with a burst of the same size.
// Reads pass through untouched, and a limit of 0 disables throttling.
func RateLimit(perSecond float64) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	burst := max(int(perSecond), 1)
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if !limiter.Allow() {
				slog.Warn("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				if err := httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorBody{Error: "too many requests"}); err != nil {
					slog.Error("failed to write response", "error", err)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
