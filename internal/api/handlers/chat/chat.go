package chat

import (
	"errors"
	"io"
	"net/http"

	chatService "dining-assistant/internal/core/chat"
	"dining-assistant/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StartRequest 開啟會話請求
// preferences: 可選的部分偏好，缺漏欄位使用預設值
type StartRequest struct {
	Preferences *common.ProfileUpdate `json:"preferences"`
}

// MessageRequest 會話訊息請求
type MessageRequest struct {
	SessionID   string                `json:"session_id" binding:"required"`
	Message     string                `json:"message" binding:"required"`
	Preferences *common.ProfileUpdate `json:"preferences,omitempty"`
}

// Handler 會話相關處理器
type Handler struct {
	manager *chatService.Manager
}

// NewHandler 創建會話處理器
func NewHandler(manager *chatService.Manager) *Handler {
	return &Handler{manager: manager}
}

// HandleStart 處理 POST /chat/start
func (h *Handler) HandleStart(c *gin.Context) {
	requestID := ensureRequestID(c)

	// 空請求體視為未提供偏好
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	snapshot, err := h.manager.Start(c.Request.Context(), req.Preferences)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogInfo("會話已開啟",
		zap.String("request_id", requestID),
		zap.String("session_id", snapshot.SessionID),
		zap.Bool("demo", snapshot.Demo),
	)

	c.JSON(http.StatusOK, snapshot)
}

// HandleMessage 處理 POST /chat/message
func (h *Handler) HandleMessage(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	reply, snapshot, err := h.manager.Send(c.Request.Context(), req.SessionID, req.Message, req.Preferences)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	common.LogInfo("訊息處理完成",
		zap.String("request_id", requestID),
		zap.String("session_id", snapshot.SessionID),
		zap.Int("message_count", len(snapshot.Messages)),
	)

	c.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"session": snapshot,
	})
}

// HandleHistory 處理 GET /chat/history/:session_id
func (h *Handler) HandleHistory(c *gin.Context) {
	requestID := ensureRequestID(c)

	snapshot, err := h.manager.History(c.Param("session_id"))
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": snapshot.SessionID,
		"messages":   snapshot.Messages,
		"count":      len(snapshot.Messages),
	})
}

// HandleEnd 處理 DELETE /chat/session/:session_id
func (h *Handler) HandleEnd(c *gin.Context) {
	requestID := ensureRequestID(c)

	sessionID := c.Param("session_id")
	if err := h.manager.End(sessionID); err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ended",
		"session_id": sessionID,
	})
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
