// ratelimit.go limits how fast one visitor can hit the server.
//
// Each visitor gets a token bucket from golang.org/x/time/rate: a burst of
// perMinute requests, refilled at perMinute per minute. An empty bucket
// answers 429 Too Many Requests.
package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/Shimizu-Technology/transcript-viewer/internal/models"
)

// RateLimiter tracks request rates per visitor.
type RateLimiter struct {
	perMinute int
	idleTTL   time.Duration

	mu       sync.Mutex
	limiters map[string]*visitorLimiter
}

type visitorLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing perMinute requests per visitor.
// Zero or negative disables limiting.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		perMinute: perMinute,
		idleTTL:   time.Hour,
		limiters:  make(map[string]*visitorLimiter),
	}
}

// RateLimit returns Gin middleware that enforces the per-visitor limit.
// It must run after Visitor; requests without a visitor fall back to the
// client IP.
func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.perMinute <= 0 {
			c.Next()
			return
		}

		key := GetVisitorID(c)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, remaining := rl.allow(key)
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please try again later.",
				Code:    http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}

// allow consumes one token for key and reports what is left.
func (rl *RateLimiter) allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.limiters[key]
	if !ok {
		v = &visitorLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute),
		}
		rl.limiters[key] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		return false, 0
	}
	remaining := int(v.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return true, remaining
}

// Run drops limiters of visitors idle for over an hour until ctx ends.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(time.Now())
		}
	}
}

func (rl *RateLimiter) sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for key, v := range rl.limiters {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.limiters, key)
			n++
		}
	}
	return n
}
