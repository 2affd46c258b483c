package wire

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"

	"github.com/estlcameo/backend/internal/application/session"
	appSnapshot "github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/infrastructure/hotkey"
	applog "github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/infrastructure/watcher"
	"github.com/estlcameo/backend/internal/infrastructure/websocket"
	"github.com/estlcameo/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer  *interfaces.HTTPServer
	wsHub       *websocket.Hub
	forwarder   *websocket.EventForwarder
	eventBus    events.EventBus
	fileWatcher *watcher.FileWatcher
	filter      *hotkey.Filter
	hook        *hotkey.Hook
	coordinator *session.Coordinator
	journal     *appSnapshot.JournalRecorder
	db          *sql.DB
	logger      *slog.Logger

	cancel  context.CancelFunc
	runDone chan struct{}
	hookOn  bool
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	wsHub *websocket.Hub,
	forwarder *websocket.EventForwarder,
	eventBus events.EventBus,
	fileWatcher *watcher.FileWatcher,
	filter *hotkey.Filter,
	hook *hotkey.Hook,
	coordinator *session.Coordinator,
	journal *appSnapshot.JournalRecorder,
	db *sql.DB,
) *App {
	return &App{
		HTTPServer:  httpServer,
		wsHub:       wsHub,
		forwarder:   forwarder,
		eventBus:    eventBus,
		fileWatcher: fileWatcher,
		filter:      filter,
		hook:        hook,
		coordinator: coordinator,
		journal:     journal,
		db:          db,
		logger:      applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务
// listener 为单例锁持有的端口；为 nil 时 HTTP 服务器自行监听配置的端口
func (a *App) Start(listener net.Listener) error {
	a.logger.Info("Starting EstlCameo daemon")

	// 启动 WebSocket Hub，事件转发和通知推送都依赖它
	a.wsHub.Start()
	a.forwarder.Start()
	a.journal.Start()

	if err := a.fileWatcher.Start(); err != nil {
		a.stopCore()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.runDone = make(chan struct{})
	go func() {
		defer close(a.runDone)
		a.coordinator.Run(ctx)
	}()

	// 键盘钩子最后安装，保证意图到达时协调器已在运行
	a.filter.SetSink(a.coordinator.HandleIntent)
	if err := a.hook.Start(); err != nil {
		if !errors.Is(err, hotkey.ErrUnsupported) {
			a.stopCore()
			return err
		}
		a.logger.Warn("Global hotkeys unavailable, only the HTTP and MCP surfaces are active",
			"error", err,
		)
	} else {
		a.hookOn = true
		a.logger.Info("Keyboard hook installed")
	}

	go func() {
		var err error
		if listener != nil {
			err = a.HTTPServer.Serve(listener)
		} else {
			err = a.HTTPServer.Start()
		}
		if err != nil {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
		}
	}()

	a.logger.Info("EstlCameo daemon started")
	return nil
}

// Stop 按启动的相反顺序停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping EstlCameo daemon")

	// 先卸载钩子，保证不再拦截任何按键
	if a.hookOn {
		if err := a.hook.Close(); err != nil {
			a.logger.Error("Failed to remove keyboard hook",
				"error", err,
			)
		}
		a.hookOn = false
	}
	a.filter.SetSink(nil)

	var firstErr error
	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		firstErr = err
	}

	a.stopCore()

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database connection",
				"error", err,
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("EstlCameo daemon stopped")
	return firstErr
}

// stopCore 停止协调器、文件监听和事件相关组件
func (a *App) stopCore() {
	if a.cancel != nil {
		a.cancel()
		<-a.runDone
		a.cancel = nil
	}

	a.fileWatcher.Stop()
	a.journal.Stop()
	a.forwarder.Stop()
	a.eventBus.Close()
	a.wsHub.Stop()
}
