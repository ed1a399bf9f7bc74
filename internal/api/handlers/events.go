package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kai_shield/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 事件流只含公開資訊，允許任何來源
	},
}

// EventHandler 處理事件推送的 WebSocket 連接
type EventHandler struct {
	hub *service.EventHub
}

func NewEventHandler(hub *service.EventHub) *EventHandler {
	return &EventHandler{hub: hub}
}

// HandleWebSocket 升級連線並訂閱事件；topic 參數可限定事件類型前綴
func (h *EventHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失敗時已自行寫入錯誤回應
		_ = c.Error(err)
		return
	}

	h.hub.Serve(conn, c.Query("topic"))
}
