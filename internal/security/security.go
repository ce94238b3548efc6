package security

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Config holds the middleware knobs.
type Config struct {
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	RequestTimeout    time.Duration `json:"request_timeout"`
}

// DefaultConfig returns the serving defaults. The boundary process is
// trusted, so the limits exist to protect the training endpoint and sqlite
// from accidental hammering, not to authenticate anyone.
func DefaultConfig() Config {
	return Config{
		MaxRequestsPerMin: 120,
		RequestTimeout:    30 * time.Second,
	}
}

// Middleware provides security headers, per-IP rate limiting and request
// timeouts.
type Middleware struct {
	config Config

	mu         sync.Mutex
	ipLimiters map[string]*rate.Limiter
}

// NewMiddleware creates a middleware instance from config.
func NewMiddleware(config Config) *Middleware {
	return &Middleware{
		config:     config,
		ipLimiters: make(map[string]*rate.Limiter),
	}
}

// SecurityHeaders sets the standard hardening headers on every response.
func (m *Middleware) SecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("X-XSS-Protection", "1; mode=block")
	c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
	c.Next()
}

// RateLimitByIP enforces a token-bucket limit per client IP.
func (m *Middleware) RateLimitByIP(c *gin.Context) {
	limiter := m.limiterFor(c.ClientIP())
	if !limiter.Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": "rate limit exceeded",
		})
		return
	}
	c.Next()
}

func (m *Middleware) limiterFor(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.ipLimiters[ip]
	if !ok {
		perSecond := rate.Limit(float64(m.config.MaxRequestsPerMin) / 60.0)
		limiter = rate.NewLimiter(perSecond, m.config.MaxRequestsPerMin/6)
		m.ipLimiters[ip] = limiter
	}
	return limiter
}
