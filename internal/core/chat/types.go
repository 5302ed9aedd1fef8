package chat

import (
	"time"
)

// SessionState 會話狀態
type SessionState string

const (
	// StateIdle 尚未開始
	StateIdle SessionState = "idle"
	// StateStarting 開啟流程進行中
	StateStarting SessionState = "starting"
	// StateActive 會話已建立
	StateActive SessionState = "active"
)

// Role 訊息作者角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageStatus 訊息投遞狀態
type MessageStatus string

const (
	// StatusPending 樂觀插入，交換尚未完成
	StatusPending MessageStatus = "pending"
	// StatusConfirmed 交換已完成
	StatusConfirmed MessageStatus = "confirmed"
)

// Message 會話中的一則訊息
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Content   string        `json:"content"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Snapshot 會話的唯讀快照
type Snapshot struct {
	SessionID string       `json:"session_id"`
	State     SessionState `json:"state"`
	Started   bool         `json:"started"`
	Loading   bool         `json:"loading"`
	Demo      bool         `json:"demo"`
	Messages  []Message    `json:"messages"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
