package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/ratelimit"
)

// KeyFunc derives the rate limiting key for a request.
type KeyFunc func(r *http.Request) string

// ClientIPKey keys requests by the client's IP address. Used for endpoints
// that run before authentication, such as login and sign up.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles requests admitted by keyFunc through the given
// limiter. Throttled requests get a 429 with a Retry-After header; a limiter
// backend failure yields 503 rather than waving the request through.
func RateLimit(limiter ratelimit.Limiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := keyFunc(r)
			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				slog.Error("rate limiter check failed", "error", err, "path", r.URL.Path)
				shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
				return
			}

			if !result.Allowed {
				retryAfter := result.RetryAfter
				if retryAfter <= 0 {
					retryAfter = time.Minute
				}
				seconds := int(retryAfter.Round(time.Second) / time.Second)
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				shared.RespondWithError(w, r, http.StatusTooManyRequests, "Rate limit exceeded, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
