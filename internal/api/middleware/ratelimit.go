package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Rrens/itinerary-planner/internal/api/response"
)

// Limiter counts requests per key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, int, time.Time, error)
	Limit() int
}

// RateLimitMiddleware handles rate limiting
type RateLimitMiddleware struct {
	limiter Limiter
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter Limiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// ByUser limits authenticated requests per user id
func (m *RateLimitMiddleware) ByUser(next http.Handler) http.Handler {
	return m.limit(next, func(r *http.Request) string {
		if userID, ok := GetUserID(r.Context()); ok {
			return "user:" + userID.String()
		}
		return "ip:" + clientIP(r)
	})
}

// ByIP limits requests per client address. Run it after chi's RealIP.
func (m *RateLimitMiddleware) ByIP(next http.Handler) http.Handler {
	return m.limit(next, func(r *http.Request) string {
		return "ip:" + clientIP(r)
	})
}

func (m *RateLimitMiddleware) limit(next http.Handler, keyFor func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := keyFor(r)
		allowed, remaining, resetTime, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			// fail open
			log.Warn().Err(err).Str("key", key).Msg("Rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.TooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
