package monitoring

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics holds the service counters exposed at /metrics.
type Metrics struct {
	RequestCount int64
	ErrorCount   int64
	AssessCount  int64
	TrainCount   int64
	CacheHits    int64
	CacheMisses  int64
	StartTime    time.Time

	mu            sync.RWMutex
	statusCounts  map[int]int64
	totalDuration time.Duration
}

// NewMetrics creates a metrics instance anchored at the current time.
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime:    time.Now(),
		statusCounts: make(map[int]int64),
	}
}

func (m *Metrics) IncrementAssess() { atomic.AddInt64(&m.AssessCount, 1) }
func (m *Metrics) IncrementTrain()  { atomic.AddInt64(&m.TrainCount, 1) }

// IncrementCacheHit records a response served from cache.
func (m *Metrics) IncrementCacheHit() { atomic.AddInt64(&m.CacheHits, 1) }

// IncrementCacheMiss records a response computed fresh.
func (m *Metrics) IncrementCacheMiss() { atomic.AddInt64(&m.CacheMisses, 1) }

func (m *Metrics) record(status int, duration time.Duration) {
	atomic.AddInt64(&m.RequestCount, 1)
	if status >= 400 {
		atomic.AddInt64(&m.ErrorCount, 1)
	}

	m.mu.Lock()
	m.statusCounts[status]++
	m.totalDuration += duration
	m.mu.Unlock()
}

// GetStats snapshots the counters for the metrics endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)

	m.mu.RLock()
	statuses := make(map[int]int64, len(m.statusCounts))
	for code, n := range m.statusCounts {
		statuses[code] = n
	}
	total := m.totalDuration
	m.mu.RUnlock()

	var avgMs float64
	if requests > 0 {
		avgMs = float64(total.Milliseconds()) / float64(requests)
	}

	return map[string]interface{}{
		"request_count":   requests,
		"error_count":     atomic.LoadInt64(&m.ErrorCount),
		"assess_count":    atomic.LoadInt64(&m.AssessCount),
		"train_count":     atomic.LoadInt64(&m.TrainCount),
		"cache_hits":      atomic.LoadInt64(&m.CacheHits),
		"cache_misses":    atomic.LoadInt64(&m.CacheMisses),
		"avg_response_ms": avgMs,
		"status_counts":   statuses,
		"uptime_seconds":  time.Since(m.StartTime).Seconds(),
	}
}

// Middleware records request counts, statuses and latency for every route.
func Middleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.record(c.Writer.Status(), time.Since(start))
	}
}
