package assistant

import (
	"dining-assistant/internal/pkg/common"
)

// StartRequest 開啟會話的請求
type StartRequest struct {
	Preferences common.WireProfile `json:"preferences"`
	Context     string             `json:"context,omitempty"`
}

// StartResponse 開啟會話的回應
type StartResponse struct {
	SessionID         string   `json:"session_id"`
	Message           string   `json:"message"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
}

// MessageRequest 會話訊息請求
type MessageRequest struct {
	SessionID   string              `json:"session_id"`
	Message     string              `json:"message"`
	Preferences *common.WireProfile `json:"preferences,omitempty"`
}

// MessageResponse 會話訊息回應
type MessageResponse struct {
	SessionID         string   `json:"session_id,omitempty"`
	Message           string   `json:"message"`
	FollowUpQuestions []string `json:"follow_up_questions,omitempty"`
}
