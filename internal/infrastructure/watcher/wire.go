package watcher

import (
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/google/wire"
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideFileWatcher 提供项目文件监听器实例
func ProvideFileWatcher(cfg *config.SnapshotConfig) (*FileWatcher, error) {
	wc := DefaultWatchConfig()
	if cfg.WatchDebounce > 0 {
		wc.DebounceDelay = cfg.WatchDebounce
	}
	return NewFileWatcher(wc)
}

// ProviderSet 事件总线与文件监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideFileWatcher,
)
