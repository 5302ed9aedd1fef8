package common

import (
	"net/http"
)

// CustomError 統一的領域錯誤，攜帶對外錯誤代碼與 HTTP 狀態碼
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 暴露原始錯誤，讓 errors.Is / errors.As 能追蹤錯誤鏈
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// 對外錯誤代碼
const (
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429
	ErrCodeInternalError   = "INTERNAL_ERROR"    // 500
	ErrCodeGatewayTimeout  = "GATEWAY_TIMEOUT"   // 504
)

// 預定義領域錯誤，呼叫端以 errors.Is 辨識
var (
	ErrSessionNotFound     = NewError("SESSION_NOT_FOUND", "對話不存在或已過期", http.StatusNotFound, nil)
	ErrSessionLimitReached = NewError("SESSION_LIMIT_REACHED", "對話數量已達上限", http.StatusServiceUnavailable, nil)
	ErrEmptyMessage        = NewError("EMPTY_MESSAGE", "訊息內容不可為空", http.StatusBadRequest, nil)
	ErrItemNotFound        = NewError("ITEM_NOT_FOUND", "菜單項目不存在", http.StatusNotFound, nil)
	ErrCatalogUnavailable  = NewError("CATALOG_UNAVAILABLE", "菜單目錄暫時不可用", http.StatusServiceUnavailable, nil)
	ErrCacheFull           = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrQueueFull           = NewError("QUEUE_FULL", "請求隊列已滿", http.StatusServiceUnavailable, nil)
)
