package admin

import (
	"net/http"

	"dining-assistant/internal/core/assistant/queue"
	"dining-assistant/internal/core/catalog"
	chatService "dining-assistant/internal/core/chat"
	menuService "dining-assistant/internal/core/menu"
	"dining-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 管理端點處理器
type Handler struct {
	catalogService *catalog.Service
	menuService    *menuService.Service
	queueManager   *queue.Manager
	chatManager    *chatService.Manager
}

// NewHandler 創建管理處理器
func NewHandler(catalogSvc *catalog.Service, menuSvc *menuService.Service, queueMgr *queue.Manager, chatMgr *chatService.Manager) *Handler {
	return &Handler{
		catalogService: catalogSvc,
		menuService:    menuSvc,
		queueManager:   queueMgr,
		chatManager:    chatMgr,
	}
}

// HandleStats 處理 GET /admin/stats
func (h *Handler) HandleStats(c *gin.Context) {
	stats := gin.H{
		"catalog":      h.catalogService.Stats(),
		"result_cache": h.menuService.CacheStats(),
		"sessions":     gin.H{"active": h.chatManager.Count()},
	}
	if h.queueManager != nil {
		stats["queue"] = h.queueManager.GetQueueStatus()
	}

	c.JSON(http.StatusOK, stats)
}

// HandleCatalogReload 處理 POST /admin/catalog/reload
func (h *Handler) HandleCatalogReload(c *gin.Context) {
	requestID := requestid.Get(c)

	if err := h.catalogService.Reload(c.Request.Context()); err != nil {
		common.LogError("目錄重新載入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(common.ErrCatalogUnavailable.Status, gin.H{
			"error":      gin.H{"code": common.ErrCatalogUnavailable.Code, "message": common.ErrCatalogUnavailable.Message},
			"request_id": requestID,
		})
		return
	}

	stats := h.catalogService.Stats()
	common.LogInfo("目錄重新載入完成",
		zap.String("request_id", requestID),
		zap.Any("items", stats["items"]),
	)

	c.JSON(http.StatusOK, gin.H{
		"status":  "reloaded",
		"catalog": stats,
	})
}
