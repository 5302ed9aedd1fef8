package menu

import (
	"errors"
	"net/http"
	"strconv"

	"dining-assistant/internal/core/catalog"
	menuService "dining-assistant/internal/core/menu"
	"dining-assistant/internal/core/preference"
	"dining-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPopularLimit = 5

// RecommendationsRequest 推薦請求
// preferences: 部分偏好，缺漏欄位使用預設值
type RecommendationsRequest struct {
	Preferences *common.ProfileUpdate `json:"preferences"`
	Limit       int                   `json:"limit,omitempty"`
}

// SafetyCheckRequest 過敏安全檢查請求
type SafetyCheckRequest struct {
	Allergies []string `json:"allergies" binding:"required"`
}

// Handler 菜單相關處理器
type Handler struct {
	menuService    *menuService.Service
	catalogService *catalog.Service
}

// NewHandler 創建菜單處理器
func NewHandler(menuSvc *menuService.Service, catalogSvc *catalog.Service) *Handler {
	return &Handler{
		menuService:    menuSvc,
		catalogService: catalogSvc,
	}
}

// HandleRecommendations 處理 POST /menu/recommendations
func (h *Handler) HandleRecommendations(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	profile := resolveProfile(req.Preferences)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultPopularLimit
	}

	ranked := h.menuService.Recommend(profile, limit)

	common.LogInfo("推薦查詢完成",
		zap.String("request_id", requestID),
		zap.Int("result_count", len(ranked)),
	)

	c.JSON(http.StatusOK, gin.H{
		"items": ranked,
		"count": len(ranked),
	})
}

// HandleListMenu 處理 GET /menu，支援 meal_type 與 cuisine 篩選
func (h *Handler) HandleListMenu(c *gin.Context) {
	mealType := c.Query("meal_type")
	cuisine := c.Query("cuisine")

	items := h.menuService.ListItems(mealType, cuisine)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// HandleGetItem 處理 GET /menu/items/:id
func (h *Handler) HandleGetItem(c *gin.Context) {
	requestID := ensureRequestID(c)

	item, err := h.menuService.Get(c.Param("id"))
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// HandleSafetyCheck 處理 POST /menu/items/:id/safety-check
func (h *Handler) HandleSafetyCheck(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req SafetyCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	report, err := h.menuService.SafetyCheck(c.Param("id"), req.Allergies)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogInfo("安全檢查完成",
		zap.String("request_id", requestID),
		zap.String("item_id", report.ItemID),
		zap.Bool("safe", report.Safe),
		zap.Int("warning_count", len(report.Warnings)),
	)

	c.JSON(http.StatusOK, report)
}

// HandleSearch 處理 GET /menu/search?q=
func (h *Handler) HandleSearch(c *gin.Context) {
	query := c.Query("q")

	items := h.menuService.Search(query, nil)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
		"query": query,
	})
}

// HandlePopular 處理 GET /menu/popular?limit=
func (h *Handler) HandlePopular(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), defaultPopularLimit)

	items := h.menuService.Popular(limit)

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// HandleSimilar 處理 GET /menu/items/:id/similar?limit=
func (h *Handler) HandleSimilar(c *gin.Context) {
	requestID := ensureRequestID(c)
	limit := parseLimit(c.Query("limit"), defaultPopularLimit)

	items, err := h.menuService.Similar(c.Param("id"), limit)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

// resolveProfile 由部分更新建構完整偏好，缺漏欄位採用預設值
func resolveProfile(changes *common.ProfileUpdate) common.PreferenceProfile {
	profile := common.DefaultProfile()
	if changes != nil {
		profile = preference.Update(profile, *changes)
	}
	return profile
}

func parseLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func ensureRequestID(c *gin.Context) string {
	requestID := requestid.Get(c)
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 將領域錯誤映射為結構化錯誤響應
func respondError(c *gin.Context, requestID string, err error) {
	var customErr *common.CustomError
	if errors.As(err, &customErr) {
		c.JSON(customErr.Status, gin.H{
			"error":      gin.H{"code": customErr.Code, "message": customErr.Message},
			"request_id": requestID,
		})
		return
	}

	common.LogError("未分類的處理錯誤",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      gin.H{"code": common.ErrCodeInternalError, "message": "Internal server error"},
		"request_id": requestID,
	})
}
