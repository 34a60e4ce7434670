package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performFrom(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = ip + ":51234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit_LimitsByClientIP(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	r := gin.New()
	r.Use(RateLimit(limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// The limiter runs before authentication, so the bucket is the peer IP.
	assert.Equal(t, http.StatusOK, performFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, performFrom(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, performFrom(r, "10.0.0.1"))

	assert.Equal(t, http.StatusOK, performFrom(r, "10.0.0.2"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)
	defer limiter.Stop()

	assert.True(t, limiter.Allow("key"))
	assert.False(t, limiter.Allow("key"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.Allow("key"))
}
