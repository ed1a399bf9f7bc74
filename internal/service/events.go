package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kai_shield/internal/models"
)

const (
	sendBufferSize = 256
	readLimit      = 512
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
)

// Subscriber 代表一個 WebSocket 訂閱者
type Subscriber struct {
	conn  *websocket.Conn
	topic string            // 空字串代表所有事件
	send  chan models.Event // 消息發送通道，由 EventHub 關閉
}

// EventHub 管理所有的 WebSocket 訂閱者並推送事件
type EventHub struct {
	subs   map[*Subscriber]struct{}
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewEventHub(logger *slog.Logger) *EventHub {
	return &EventHub{
		subs:   make(map[*Subscriber]struct{}),
		logger: logger,
	}
}

// Serve 註冊連線並阻塞直到連線關閉
func (h *EventHub) Serve(conn *websocket.Conn, topic string) {
	sub := &Subscriber{
		conn:  conn,
		topic: topic,
		send:  make(chan models.Event, sendBufferSize),
	}
	h.add(sub)

	defer func() {
		h.remove(sub)
		conn.Close()
	}()

	go h.writePump(sub)
	h.readPump(sub)
}

// Publish 推送事件給所有符合 topic 的訂閱者；緩衝已滿的訂閱者會被移除
func (h *EventHub) Publish(event models.Event) {
	var slow []*Subscriber

	h.mu.RLock()
	for sub := range h.subs {
		if !event.Matches(sub.topic) {
			continue
		}
		select {
		case sub.send <- event:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn("dropping slow event subscriber", "remote_addr", sub.conn.RemoteAddr().String())
		h.remove(sub)
	}
}

// Count 回傳目前的訂閱者數量
func (h *EventHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *EventHub) add(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[sub] = struct{}{}
}

// remove 可重複呼叫；只有第一次會關閉 send
func (h *EventHub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.send)
	}
}

// readPump 只處理 pong 與關閉，訂閱者送來的內容一律丟棄
func (h *EventHub) readPump(sub *Subscriber) {
	sub.conn.SetReadLimit(readLimit)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket unexpected close", "error", err)
			}
			return
		}
	}
}

func (h *EventHub) writePump(sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
