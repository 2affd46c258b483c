package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/infrastructure/websocket"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gws "github.com/gorilla/websocket"
)

const (
	// wsWriteWait 单条消息写超时
	wsWriteWait = 10 * time.Second
	// wsPongWait 超过该时长没有收到 pong 则断开
	wsPongWait = 60 * time.Second
	// wsPingPeriod 发送 ping 的间隔，必须小于 wsPongWait
	wsPingPeriod = wsPongWait * 9 / 10
	// wsReadLimit 客户端消息上限，客户端只需要回 pong
	wsReadLimit = 4096
)

// WebSocketHandler 把 Hub 的广播推送给 UI 客户端
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gws.Upgrader
	logger   *slog.Logger
}

// NewWebSocketHandler 创建 WebSocket 处理器
func NewWebSocketHandler(hub *websocket.Hub, cfg *config.WebSocketConfig) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		logger: log.NewModuleLogger("http", "websocket"),
		upgrader: gws.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin:     isLocalOrigin,
		},
	}
}

// Serve 升级为 WebSocket 连接
// @Summary 事件推送
// @Tags 推送
// @Router /ws [get]
func (h *WebSocketHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection", "error", err)
		return
	}

	client := websocket.NewConnection(uuid.New().String())
	if err := h.hub.Register(client); err != nil {
		_ = conn.WriteMessage(gws.CloseMessage, gws.FormatCloseMessage(gws.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Debug("UI client connected", "id", client.ID, "remote", c.Request.RemoteAddr)

	go h.writePump(conn, client)
	h.readPump(conn, client)
}

// readPump 只处理 pong 和关闭，连接断开时从 Hub 注销
func (h *WebSocketHandler) readPump(conn *gws.Conn, client *websocket.Connection) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if gws.IsUnexpectedCloseError(err, gws.CloseGoingAway, gws.CloseAbnormalClosure) {
				h.logger.Debug("UI client read error", "id", client.ID, "error", err)
			}
			return
		}
	}
}

// writePump Hub 关闭 Send 通道后发送关闭帧并退出
func (h *WebSocketHandler) writePump(conn *gws.Conn, client *websocket.Connection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(gws.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(gws.TextMessage, message); err != nil {
				h.logger.Debug("UI client write error", "id", client.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(gws.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// isLocalOrigin 只接受本机页面和没有 Origin 的本地客户端
func isLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
