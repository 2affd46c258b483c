//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/estlcameo/backend/internal/application"
	appNotification "github.com/estlcameo/backend/internal/application/notification"
	"github.com/estlcameo/backend/internal/application/session"
	appSnapshot "github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/infrastructure"
	"github.com/estlcameo/backend/internal/infrastructure/estlcam"
	infraNotification "github.com/estlcameo/backend/internal/infrastructure/notification"
	"github.com/estlcameo/backend/internal/infrastructure/watcher"
	"github.com/estlcameo/backend/internal/interfaces"
	"github.com/estlcameo/backend/internal/interfaces/http/handler"
	"github.com/estlcameo/backend/internal/interfaces/mcp"
	"github.com/google/wire"
)

// InitializeAll 初始化所有服务
func InitializeAll() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		notification.ProviderSet,   // 领域层（按需引入）
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层

		// application.Pusher -> infrastructure.Pusher
		wire.Bind(new(appNotification.Pusher), new(*infraNotification.WebSocketPusher)),

		// 快照引擎依赖
		wire.Bind(new(appSnapshot.ChangeWatcher), new(*watcher.FileWatcher)),
		wire.Bind(new(appSnapshot.PreviewCapturer), new(*estlcam.PreviewCapturer)),
		wire.Bind(new(appSnapshot.HostLauncher), new(*estlcam.Launcher)),
		wire.Bind(new(appSnapshot.Notifier), new(*appNotification.Service)),

		// 会话协调器依赖
		wire.Bind(new(host.Prober), new(*estlcam.Prober)),
		wire.Bind(new(session.Resolver), new(*estlcam.PathResolver)),
		wire.Bind(new(session.Notifier), new(*appNotification.Service)),

		// 接口层依赖
		wire.Bind(new(handler.SessionService), new(*session.Coordinator)),
		wire.Bind(new(handler.SnapshotService), new(*session.Coordinator)),
		wire.Bind(new(handler.JournalReader), new(*appSnapshot.JournalRecorder)),
		wire.Bind(new(handler.HostInspector), new(*estlcam.PathResolver)),
		wire.Bind(new(handler.NotificationLister), new(*appNotification.Service)),
		wire.Bind(new(mcp.SnapshotService), new(*session.Coordinator)),

		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil
}
