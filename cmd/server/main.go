// @title EstlCameo Daemon API
// @version 0.1.0
// @description EstlCameo 守护进程 API：Estlcam 项目文件的快照历史
// @host localhost:19970
// @BasePath /api/v1
// @schemes http
package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/estlcameo/backend/internal/infrastructure/config"
	applog "github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/infrastructure/singleton"
	"github.com/estlcameo/backend/internal/wire"
	"github.com/gin-gonic/gin"
)

func main() {
	// 初始化日志系统
	applog.Init(nil)
	logger := applog.With("pid", os.Getpid())

	// 非调试模式下关闭 gin 的路由打印，GIN_MODE 显式设置时以其为准
	if !applog.IsDebugMode() && os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 加载配置获取端口
	cfg := config.NewConfig()
	port := cfg.Server.HTTPPort

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(port)
	if err != nil {
		if errors.Is(err, singleton.ErrPortOccupied) {
			log.Fatalf("端口 %s 被其它程序占用: %v", port, err)
		}
		log.Fatalf("单例锁检查失败: %v", err)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		log.Println("检测到已有实例在运行，当前进程退出")
		os.Exit(0)
	}

	// Wire 自动生成的初始化函数
	app, err := wire.InitializeAll()
	if err != nil {
		_ = listener.Close()
		logger.Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}

	// 持有的 listener 直接交给 HTTP 服务器，检查和监听之间不释放端口
	if err := app.Start(listener); err != nil {
		_ = listener.Close()
		logger.Error("Failed to start application",
			"error", err,
		)
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down application...")
	if err := app.Stop(); err != nil {
		logger.Error("Error during application shutdown",
			"error", err,
		)
	}
	logger.Info("Application stopped")
}
