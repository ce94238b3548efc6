package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 120, config.MaxRequestsPerMin)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMiddleware(DefaultConfig())

	r := gin.New()
	r.Use(m.SecurityHeaders)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	r.ServeHTTP(w, req)

	headers := w.Header()
	assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", headers.Get("X-XSS-Protection"))
	assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
}

func TestRateLimitByIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultConfig()
	config.MaxRequestsPerMin = 12 // burst of 2

	m := NewMiddleware(config)

	r := gin.New()
	r.Use(m.RateLimitByIP)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	limited := false
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		r.ServeHTTP(w, req)

		if i < 2 {
			assert.Equal(t, http.StatusOK, w.Code, "request %d should fit in the burst", i+1)
		} else if w.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	assert.True(t, limited, "sustained traffic should eventually hit the limit")
}

func TestRateLimitIsolatesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config := DefaultConfig()
	config.MaxRequestsPerMin = 12

	m := NewMiddleware(config)

	r := gin.New()
	r.Use(m.RateLimitByIP)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	// Exhaust one client's bucket.
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		r.ServeHTTP(w, req)
	}

	// A different client still gets through.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
