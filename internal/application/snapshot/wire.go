package snapshot

import "github.com/google/wire"

// ProviderSet 快照应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewStore,
	NewJournalRecorder,
	// 注意：ChangeWatcher、PreviewCapturer、HostLauncher、Notifier 接口绑定在顶层 wire.go 中处理
)
