package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/infrastructure/singleton"
	"github.com/estlcameo/backend/internal/interfaces/http/handler"
	"github.com/estlcameo/backend/internal/interfaces/http/middleware"
	"github.com/estlcameo/backend/internal/interfaces/mcp"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/estlcameo/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	sessionHandler *handler.SessionHandler,
	snapshotHandler *handler.SnapshotHandler,
	hostHandler *handler.HostHandler,
	notificationHandler *handler.NotificationHandler,
	wsHandler *handler.WebSocketHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	logger := log.NewModuleLogger("http", "server")

	api := router.Group("/api/v1")
	api.Use(middleware.EnsureUTF8Body())
	{
		sess := api.Group("/session")
		{
			sess.GET("/status", sessionHandler.Status)
			sess.POST("/bind", sessionHandler.Bind)
			sess.POST("/unbind", sessionHandler.Unbind)
		}

		snaps := api.Group("/snapshots")
		{
			snaps.GET("", snapshotHandler.List)
			snaps.POST("", snapshotHandler.Create)
			snaps.POST("/undo", snapshotHandler.Undo)
			snaps.POST("/redo", snapshotHandler.Redo)
			snaps.POST("/restore-copy", snapshotHandler.RestoreCopy)
			snaps.POST("/open-folder", snapshotHandler.OpenFolder)
			snaps.GET("/journal", snapshotHandler.Journal)
		}

		hostGroup := api.Group("/host")
		{
			hostGroup.GET("/state", hostHandler.State)
			hostGroup.GET("/resolve", hostHandler.Resolve)
		}

		api.GET("/notifications", notificationHandler.List)
	}

	// 健康检查，单例锁通过它识别已运行的实例
	router.GET(singleton.HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": singleton.ServiceName})
	})

	// UI 推送
	router.GET("/ws", wsHandler.Serve)

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		server: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler 返回路由，测试使用
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Serve 在已持有的 listener 上提供服务，直到 Shutdown
// listener 来自单例锁，保证端口在检查和监听之间不会被抢占
func (s *HTTPServer) Serve(listener net.Listener) error {
	s.logger.Info("HTTP server starting",
		"addr", listener.Addr().String(),
	)

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start 自行监听配置的端口
func (s *HTTPServer) Start() error {
	listener, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// requestLogger 用模块日志代替 gin 默认的访问日志
// RequestIDHeader 请求 ID 响应头，请求已携带时沿用
const RequestIDHeader = "X-Request-ID"

func requestLogger() gin.HandlerFunc {
	logger := log.NewModuleLogger("http", "access")
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(log.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		for _, attr := range log.LogCtxFromContext(c.Request.Context()) {
			args = append(args, attr)
		}
		logger.Debug("Request handled", args...)
	}
}
