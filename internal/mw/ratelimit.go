package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiters tracks a token bucket per client IP.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		clients: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// get returns the limiter for a client IP, creating it on first use.
func (l *clientLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.clients[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients[ip] = limiter
	}
	return limiter
}

// RateLimitPerMinute limits each client IP to n requests per minute,
// allowing bursts up to the given size. Requests over the limit get a
// 429 response.
func RateLimitPerMinute(n float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(rate.Limit(n/60), burst)
	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
