package auth

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimiter throttles write traffic per caller address. The window is not
// a fixed clock boundary: the counter resets whenever the gap since the
// key's previous request reaches the window length, otherwise it increments.
// Every call mutates state, admitted or not, and stale keys are never
// evicted.
type RateLimiter struct {
	mu       sync.Mutex
	counts   map[string]int
	lastSeen map[string]time.Time

	max    int
	window time.Duration
	now    func() time.Time
}

// NewRateLimiter creates a rate limiter admitting max requests per window
// for each key.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counts:   make(map[string]int),
		lastSeen: make(map[string]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Admit records a request for key and reports whether it is within the
// limit. The last-seen timestamp is updated on every call, so a steady
// stream of denied requests keeps the window from resetting.
func (rl *RateLimiter) Admit(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	admit := true

	if last, seen := rl.lastSeen[key]; seen {
		if now.Sub(last) < rl.window {
			rl.counts[key]++
			if rl.counts[key] > rl.max {
				admit = false
			}
		} else {
			rl.counts[key] = 1
		}
	} else {
		rl.counts[key] = 1
	}

	rl.lastSeen[key] = now
	return admit
}

// Middleware returns an echo middleware that applies the limit keyed by the
// caller address resolved through clientIP.
func (rl *RateLimiter) Middleware(clientIP func(echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.Admit(clientIP(c)) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}
			return next(c)
		}
	}
}
