package monitoring

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(Middleware(m))
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ok", nil)
		r.ServeHTTP(w, req)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	r.ServeHTTP(w, req)

	stats := m.GetStats()
	assert.Equal(t, int64(4), stats["request_count"])
	assert.Equal(t, int64(1), stats["error_count"])

	statuses, ok := stats["status_counts"].(map[int]int64)
	require.True(t, ok)
	assert.Equal(t, int64(3), statuses[http.StatusOK])
	assert.Equal(t, int64(1), statuses[http.StatusInternalServerError])
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementAssess()
	m.IncrementAssess()
	m.IncrementTrain()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["assess_count"])
	assert.Equal(t, int64(1), stats["train_count"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(1), stats["cache_misses"])
	assert.GreaterOrEqual(t, stats["uptime_seconds"].(float64), 0.0)
}

func TestMetricsConcurrentUpdates(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.IncrementAssess()
			m.record(http.StatusOK, 0)
			m.GetStats()
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	assert.Equal(t, int64(50), stats["assess_count"])
	assert.Equal(t, int64(50), stats["request_count"])
}
