package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"dining-assistant/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// rateLimiter 令牌桶。allowance 以浮點數累加，
// 避免高頻請求下的整數截斷讓桶永遠補不滿
type rateLimiter struct {
	mu        sync.Mutex
	allowance float64
	capacity  float64
	perSecond float64
	last      time.Time
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	capacity := float64(requests)
	return &rateLimiter{
		allowance: capacity,
		capacity:  capacity,
		perSecond: capacity / window.Seconds(),
		last:      time.Now(),
	}
}

// take 取走一個令牌，桶空時回傳 false
func (rl *rateLimiter) take() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.allowance += now.Sub(rl.last).Seconds() * rl.perSecond
	if rl.allowance > rl.capacity {
		rl.allowance = rl.capacity
	}
	rl.last = now

	if rl.allowance < 1 {
		return false
	}
	rl.allowance--
	return true
}

// RateLimit 限流中間件，全路由組共用一個令牌桶
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := newRateLimiter(requests, window)

	return func(c *gin.Context) {
		if !limiter.take() {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"code":        common.ErrCodeTooManyRequests,
				"retry_after": window.Seconds(),
			})
			return
		}

		c.Next()
	}
}
