package notification

import (
	"github.com/estlcameo/backend/internal/application/notification"
	domainNotification "github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/infrastructure/websocket"
)

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// pushedNotification 推送给 UI 的通知内容
type pushedNotification struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"`
	Source  string `json:"source,omitempty"`
}

// PushNotification 推送通知到所有 UI 客户端
func (p *WebSocketPusher) PushNotification(n *domainNotification.Notification) error {
	return p.hub.Broadcast(websocket.ChannelNotification, n.Type.String(), &pushedNotification{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
		Level:   n.Type.String(),
		Source:  n.Source,
	})
}

// 编译时检查接口实现
var _ notification.Pusher = (*WebSocketPusher)(nil)
