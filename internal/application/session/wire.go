package session

import "github.com/google/wire"

// ProviderSet 会话应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewCoordinator,
	NewEventPrompter,
	wire.Bind(new(Prompter), new(*EventPrompter)),
	// 注意：Resolver、Notifier 接口绑定在顶层 wire.go 中处理
)
