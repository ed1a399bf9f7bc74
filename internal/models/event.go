package models

import (
	"strings"
	"time"
)

// 事件類型
const (
	EventChainUpload        = "chain.upload"
	EventChainRecord        = "chain.record"
	EventChainDeploy        = "chain.deploy"
	EventFingerprintCreated = "fingerprint.created"
	EventDMCASubmitted      = "dmca.submitted"
)

// Event 是推送給 WebSocket 訂閱者的消息，不寫入資料庫
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent 創建一個新的事件
func NewEvent(eventType string, data any) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// Matches 判斷事件是否屬於 topic（以 . 分段比對）；空 topic 代表全部
func (e Event) Matches(topic string) bool {
	return topic == "" || e.Type == topic || strings.HasPrefix(e.Type, topic+".")
}

// All 回傳需要自動遷移的模型
func All() []any {
	return []any{&User{}, &Fingerprint{}, &ChainRecord{}, &DMCARequest{}}
}
