package handler

import "github.com/google/wire"

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewSessionHandler,
	NewSnapshotHandler,
	NewHostHandler,
	NewNotificationHandler,
	NewWebSocketHandler,
	// 注意：Handler 依赖的服务接口绑定在顶层 wire.go 中处理
)
