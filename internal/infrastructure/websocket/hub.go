// Package websocket 把通知和会话事件广播给所有已连接的 UI 客户端
package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// ErrHubStopped Hub 已停止
var ErrHubStopped = errors.New("websocket hub stopped")

// 消息通道
const (
	// ChannelNotification 通知（托盘气泡）
	ChannelNotification = "notification"
	// ChannelEvent 会话 / 快照事件
	ChannelEvent = "event"
)

// SendBufferSize 每个连接的发送缓冲
const SendBufferSize = 64

// Hub WebSocket 连接管理中心
type Hub struct {
	clients map[*Connection]bool
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan []byte
	stopCh    chan struct{}
	stopOnce  sync.Once
	mu        sync.RWMutex
	logger    *slog.Logger
}

// Connection WebSocket 连接
type Connection struct {
	ID   string
	Send chan []byte
}

// NewConnection 创建连接
func NewConnection(id string) *Connection {
	return &Connection{ID: id, Send: make(chan []byte, SendBufferSize)}
}

// Envelope 推送给客户端的消息外壳
type Envelope struct {
	Channel string      `json:"channel"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	SentAt  time.Time   `json:"sent_at"`
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan []byte, 256),
		stopCh:     make(chan struct{}),
		logger:     log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case <-h.stopCh:
			h.mu.Lock()
			for conn := range h.clients {
				close(conn.Send)
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()
			h.logger.Debug("Client connected", "id", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
			h.logger.Debug("Client disconnected", "id", conn.ID)

		case data := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				select {
				case conn.Send <- data:
				default:
					// 客户端跟不上，断开
					close(conn.Send)
					delete(h.clients, conn)
					h.logger.Warn("Dropping slow client", "id", conn.ID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Stop 停止 Hub 并关闭所有连接的发送通道
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) error {
	select {
	case <-h.stopCh:
		return ErrHubStopped
	default:
	}
	select {
	case h.register <- conn:
		return nil
	case <-h.stopCh:
		return ErrHubStopped
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.stopCh:
	}
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast 向所有客户端广播
func (h *Hub) Broadcast(channel, msgType string, payload interface{}) error {
	data, err := json.Marshal(&Envelope{
		Channel: channel,
		Type:    msgType,
		Payload: payload,
		SentAt:  time.Now(),
	})
	if err != nil {
		return err
	}

	select {
	case <-h.stopCh:
		return ErrHubStopped
	default:
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.stopCh:
		return ErrHubStopped
	}
}
