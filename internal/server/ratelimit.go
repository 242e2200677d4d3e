package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	visitorIdleTTL       = 10 * time.Minute
	visitorPruneInterval = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client address.
type rateLimiter struct {
	mu       sync.Mutex
	clock    clock.Clock
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
}

func newRateLimiter(clk clock.Clock, rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimiter{
		clock:    clk,
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: make(map[string]*visitor),
	}
}

func (l *rateLimiter) enabled() bool {
	return l != nil && l.limit > 0
}

func (l *rateLimiter) Allow(key string) bool {
	if !l.enabled() {
		return true
	}
	now := l.clock.Now()
	l.mu.Lock()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()
	return v.limiter.AllowN(now, 1)
}

// Prune forgets visitors idle for longer than visitorIdleTTL.
func (l *rateLimiter) Prune() int {
	cutoff := l.clock.Now().Add(-visitorIdleTTL)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func (l *rateLimiter) Run(ctx context.Context) {
	if !l.enabled() {
		return
	}
	ticker := l.clock.Ticker(visitorPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune()
		}
	}
}

func (s *Server) rateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/healthz" {
			c.Next()
			return
		}
		if !s.enforceRateLimit(c) {
			return
		}
		c.Next()
	}
}

func (s *Server) enforceRateLimit(c *gin.Context) bool {
	address := clientAddress(c)
	if s.limiter.Allow(address) {
		return true
	}
	writeError(c, http.StatusTooManyRequests, "too many requests")
	return false
}
