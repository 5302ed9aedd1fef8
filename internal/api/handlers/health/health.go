package health

import (
	"net/http"
	"runtime"
	"time"

	"dining-assistant/internal/core/catalog"
	"dining-assistant/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

var startedAt = time.Now()

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Runtime   map[string]interface{} `json:"runtime"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	version := ""
	if v, exists := c.Get("config"); exists {
		if cfg, ok := v.(*config.Config); ok {
			version = cfg.App.Version
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startedAt).Round(time.Second).String(),
		Runtime: map[string]interface{}{
			"goroutines":   runtime.NumGoroutine(),
			"memory_alloc": m.Alloc,
			"memory_sys":   m.Sys,
			"num_gc":       m.NumGC,
		},
	})
}

// ReadinessCheck 就緒檢查處理器
// 目錄快照已載入即視為就緒，空目錄表示仍在等待第一次成功載入
func ReadinessCheck(c *gin.Context) {
	svc, exists := c.Get("catalog_service")
	if !exists {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog service not initialized",
		})
		return
	}

	catalogSvc, ok := svc.(*catalog.Service)
	if !ok || catalogSvc.Generation() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"items":  len(catalogSvc.Items()),
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
