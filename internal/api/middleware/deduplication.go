package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"
)

// dedupRetention 指紋保留時間，須大於任何實際使用的去重窗口
const dedupRetention = 10 * time.Minute

// dedupRegistry 記錄最近請求指紋，吸收短窗口內的重複送出
type dedupRegistry struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

var (
	dedupOnce sync.Once
	dedup     *dedupRegistry
)

// duplicate 檢查指紋是否在窗口內出現過，未出現則記錄。
// 檢查與記錄在同一把鎖內完成，避免並發請求雙雙通過
func (r *dedupRegistry) duplicate(fingerprint string, window time.Duration) bool {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.seen[fingerprint]; ok && now.Sub(last) <= window {
		return true
	}
	r.seen[fingerprint] = now
	return false
}

func (r *dedupRegistry) prune(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-dedupRetention)
		r.mu.Lock()
		for fp, seen := range r.seen {
			if seen.Before(cutoff) {
				delete(r.seen, fp)
			}
		}
		r.mu.Unlock()
	}
}

// requestFingerprint 以方法、路徑與請求體雜湊組成指紋
func requestFingerprint(c *gin.Context) (string, error) {
	fingerprint := c.Request.Method + ":" + c.Request.URL.Path

	if c.Request.Body == nil {
		return fingerprint, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	// 讀過的請求體要放回去給後續處理器
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	if len(body) > 0 {
		hash := sha256.Sum256(body)
		fingerprint += ":" + hex.EncodeToString(hash[:])
	}
	return fingerprint, nil
}

// Deduplication 請求去重中間件，只作用於 POST 請求
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	window := time.Second
	if cfg != nil && cfg.DedupWindow > 0 {
		window = cfg.DedupWindow
	}

	dedupOnce.Do(func() {
		dedup = &dedupRegistry{seen: make(map[string]time.Time)}
		go dedup.prune(dedupRetention)
	})

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		fingerprint, err := requestFingerprint(c)
		if err != nil {
			common.LogError("Failed to read request body", zap.Error(err))
			c.Next()
			return
		}

		if dedup.duplicate(fingerprint, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Request too frequent",
				"code":  common.ErrCodeTooManyRequests,
			})
			return
		}

		c.Next()
	}
}
