package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"dining-assistant/internal/core/assistant"
	"dining-assistant/internal/core/assistant/queue"
	"dining-assistant/internal/core/preference"
	"dining-assistant/internal/infrastructure/config"
	"dining-assistant/internal/pkg/common"

	"go.uber.org/zap"
)

// 傳輸失敗時附加的單一道歉訊息
const apologyMessage = "I apologize, but I'm having trouble processing your request. Could you please rephrase it?"

// 示範模式下附加在偏好摘要後的註記
const demoAnnotation = " (Demo mode: the assistant service is unavailable, so I'll answer from the menu directly.)"

// Conversation 單一會話的狀態機，獨占持有會話識別碼與訊息歷史
type Conversation struct {
	config   *config.Config
	provider assistant.Provider
	queue    *queue.Manager
	demoResp *DemoResponder

	// mu 保護狀態、旗標、偏好與歷史
	mu sync.Mutex
	// sendMu 序列化同一會話的訊息交換，保證附加順序
	sendMu sync.Mutex

	id        string
	state     SessionState
	demo      bool
	loading   bool
	profile   common.PreferenceProfile
	messages  []Message
	seq       int64
	createdAt time.Time
	updatedAt time.Time
}

func newConversation(cfg *config.Config, profile common.PreferenceProfile, provider assistant.Provider, q *queue.Manager, demoResp *DemoResponder) *Conversation {
	now := time.Now()
	return &Conversation{
		config:    cfg,
		provider:  provider,
		queue:     q,
		demoResp:  demoResp,
		state:     StateIdle,
		profile:   profile,
		createdAt: now,
		updatedAt: now,
	}
}

// Start 開啟會話。同一會話最多執行一次，重複呼叫回傳目前快照。
// 遠端開啟失敗時改用合成識別碼並切換為示範模式，兩種結果都以
// 偏好摘要作為唯一的開場助理訊息。
func (c *Conversation) Start(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state != StateIdle {
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}
	c.state = StateStarting
	profile := c.profile
	c.mu.Unlock()

	summary := preference.Summarize(profile)

	var sessionID string
	if c.config.Assistant.Enabled && c.provider != nil {
		callCtx, cancel := context.WithTimeout(ctx, c.config.Assistant.Timeout)
		resp, err := c.provider.StartSession(callCtx, &assistant.StartRequest{
			Preferences: preference.ToWireFormat(profile),
			Context:     summary,
		})
		cancel()
		if err != nil {
			common.LogWarn("Assistant session start failed, falling back to demo mode", zap.Error(err))
		} else {
			sessionID = resp.SessionID
			// 開場訊息固定使用本地摘要，遠端問候僅記錄後捨棄
			common.LogDebug("Discarding remote greeting",
				zap.String("session_id", resp.SessionID),
				zap.String("greeting", resp.Message),
			)
		}
	}

	demo := sessionID == ""
	if demo {
		sessionID = demoSessionID()
		summary += demoAnnotation
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.id = sessionID
	c.demo = demo
	c.state = StateActive
	c.appendLocked(RoleAssistant, summary, StatusConfirmed)
	return c.snapshotLocked()
}

// Send 在會話中送出一則訊息並回傳助理回覆。使用者訊息在遠端呼叫
// 解析前即以 pending 狀態樂觀附加；交換結束後一律調整為 confirmed
// 並清除 loading。傳輸失敗附加一則道歉訊息並轉入示範模式，
// 之後的失敗不再重複浮現。
func (c *Conversation) Send(ctx context.Context, text string, changes *common.ProfileUpdate) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, common.ErrEmptyMessage
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	if c.state != StateActive || c.id == "" {
		c.mu.Unlock()
		return Message{}, common.ErrSessionNotFound
	}
	if changes != nil {
		c.profile = preference.Update(c.profile, *changes)
	}
	sessionID := c.id
	profile := c.profile
	demo := c.demo
	userMsg := c.appendLocked(RoleUser, text, StatusPending)
	c.loading = true
	c.mu.Unlock()

	var reply string
	var failed bool
	if demo {
		reply = c.demoResp.Reply(text, profile)
	} else {
		reply, failed = c.exchange(ctx, sessionID, text, profile, changes != nil)
		if failed {
			reply = apologyMessage
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmLocked(userMsg.ID)
	if failed {
		c.demo = true
	}
	msg := c.appendLocked(RoleAssistant, reply, StatusConfirmed)
	c.loading = false
	return msg, nil
}

// exchange 經由出站隊列呼叫遠端服務，回傳回覆內容與失敗旗標
func (c *Conversation) exchange(ctx context.Context, sessionID, text string, profile common.PreferenceProfile, includeProfile bool) (string, bool) {
	req := &assistant.MessageRequest{
		SessionID: sessionID,
		Message:   text,
	}
	if includeProfile {
		wire := preference.ToWireFormat(profile)
		req.Preferences = &wire
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.Assistant.Timeout)
	defer cancel()

	resultCh, err := c.queue.Enqueue(callCtx, req)
	if err != nil {
		common.LogWarn("Assistant send failed, switching to demo mode",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
		return "", true
	}

	select {
	case result := <-resultCh:
		if result.Error != nil {
			common.LogWarn("Assistant send failed, switching to demo mode",
				zap.String("session_id", sessionID),
				zap.Error(result.Error),
			)
			return "", true
		}
		return result.Response.Message, false
	case <-callCtx.Done():
		common.LogWarn("Assistant send timed out, switching to demo mode",
			zap.String("session_id", sessionID),
			zap.Error(callCtx.Err()),
		)
		return "", true
	}
}

// Snapshot 取得會話目前的唯讀快照
func (c *Conversation) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// ID 取得會話識別碼，尚未開始時為空字串
func (c *Conversation) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// LastActivity 取得最後一次變動的時間
func (c *Conversation) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updatedAt
}

func (c *Conversation) appendLocked(role Role, content string, status MessageStatus) Message {
	c.seq++
	now := time.Now()
	msg := Message{
		ID:        fmt.Sprintf("%d-%d", now.UnixMilli(), c.seq),
		Role:      role,
		Content:   content,
		Status:    status,
		CreatedAt: now,
	}
	c.messages = append(c.messages, msg)
	c.updatedAt = now
	return msg
}

func (c *Conversation) confirmLocked(id string) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].ID == id {
			c.messages[i].Status = StatusConfirmed
			return
		}
	}
}

func (c *Conversation) snapshotLocked() Snapshot {
	messages := make([]Message, len(c.messages))
	copy(messages, c.messages)
	return Snapshot{
		SessionID: c.id,
		State:     c.state,
		Started:   c.state == StateActive,
		Loading:   c.loading,
		Demo:      c.demo,
		Messages:  messages,
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}

var lastDemoStamp int64

// demoSessionID 合成示範模式識別碼，毫秒時間戳嚴格遞增避免碰撞
func demoSessionID() string {
	for {
		now := time.Now().UnixMilli()
		last := atomic.LoadInt64(&lastDemoStamp)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapInt64(&lastDemoStamp, last, now) {
			return fmt.Sprintf("demo-session-%d", now)
		}
	}
}
