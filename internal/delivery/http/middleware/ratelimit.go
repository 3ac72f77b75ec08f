package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	h "donationtracker/internal/delivery/http/helpers"

	"golang.org/x/time/rate"
)

const limiterIdleTTL = 15 * time.Minute

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	every    time.Duration
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows perMinute requests per client per minute. perMinute <= 0 disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		every:    time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Limit wraps next so clients over their budget get 429 with a Retry-After header.
// A nil RateLimiter passes every request through.
func (l *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	if l == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.every.Seconds())+1))
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeRateLimited, "Request was throttled.")
			return
		}
		next(w, r)
	}
}

func (l *RateLimiter) limiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if entry, ok := l.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}
	l.evictIdle(now)
	limiter := rate.NewLimiter(rate.Every(l.every), l.burst)
	l.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// evictIdle drops buckets unused for limiterIdleTTL. Callers hold l.mu.
func (l *RateLimiter) evictIdle(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.limiters, key)
		}
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
