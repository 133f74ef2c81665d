package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 10 * time.Minute
)

// clientLimiters tracks one token bucket per client IP and drops buckets
// for clients that have gone idle.
type clientLimiters struct {
	mu    sync.Mutex
	rps   int
	burst int

	buckets map[string]*rate.Limiter
	seen    map[string]time.Time
}

func newClientLimiters(rps, burst int) *clientLimiters {
	cl := &clientLimiters{
		rps:     rps,
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
		seen:    make(map[string]time.Time),
	}
	go cl.sweep()
	return cl
}

// allow reports whether the client identified by ip may proceed.
func (cl *clientLimiters) allow(ip string) bool {
	cl.mu.Lock()
	b, ok := cl.buckets[ip]
	if !ok {
		b = rate.NewLimiter(rate.Limit(cl.rps), cl.burst)
		cl.buckets[ip] = b
	}
	cl.seen[ip] = time.Now()
	cl.mu.Unlock()

	return b.Allow()
}

func (cl *clientLimiters) sweep() {
	for {
		time.Sleep(limiterSweepEvery)
		cl.mu.Lock()
		for ip, last := range cl.seen {
			if time.Since(last) > limiterIdleAfter {
				delete(cl.buckets, ip)
				delete(cl.seen, ip)
			}
		}
		cl.mu.Unlock()
	}
}

// RateLimiter returns a Gin middleware enforcing a per-client-IP token
// bucket. rps is the steady-state rate, burst the bucket size.
func RateLimiter(rps, burst int) gin.HandlerFunc {
	cl := newClientLimiters(rps, burst)

	return func(c *gin.Context) {
		if !cl.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
