package cache

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trustchain/risk-service/internal/monitoring"
)

// item is one cached response body with its expiry.
type item struct {
	data      []byte
	expiresAt time.Time
}

func (i *item) expired() bool {
	return time.Now().After(i.expiresAt)
}

// Cache is a thread-safe TTL cache for read-only endpoint responses.
// Assessments are deliberately never cached: each one is constructed fresh
// per request.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*item
	ttl   time.Duration
}

// New creates a cache and starts its background sweep.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]*item),
		ttl:   ttl,
	}
	go c.sweep()
	return c
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, it := range c.items {
			if it.expired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

func key(path string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(path)))
}

// Get returns a cached body, or false on miss or expiry.
func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key(path)]
	if !ok || it.expired() {
		return nil, false
	}
	return it.data, true
}

// Set stores a response body for a path.
func (c *Cache) Set(path string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key(path)] = &item{data: data, expiresAt: time.Now().Add(c.ttl)}
}

// Invalidate drops every entry, used after retraining changes what the
// read-only endpoints would report.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*item)
}

// Size returns the current entry count.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// bodyRecorder captures the response while it streams to the client.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Middleware serves GETs on the allow-listed paths from cache, recording
// hits and misses on the metrics.
func (c *Cache) Middleware(metrics *monitoring.Metrics, paths ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(paths))
	for _, p := range paths {
		allowed[p] = true
	}

	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet || !allowed[ctx.Request.URL.Path] {
			ctx.Next()
			return
		}

		if data, ok := c.Get(ctx.Request.URL.Path); ok {
			metrics.IncrementCacheHit()
			ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
			ctx.Abort()
			return
		}

		metrics.IncrementCacheMiss()
		recorder := &bodyRecorder{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = recorder
		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK {
			c.Set(ctx.Request.URL.Path, recorder.body.Bytes())
		}
	}
}
