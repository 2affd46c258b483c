package estlcam

import (
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/google/wire"
)

// ProvideProcessMatcher 根据配置创建进程匹配规则
func ProvideProcessMatcher(cfg *config.HostConfig) ProcessMatcher {
	return ProcessMatcher{
		ProcessMatch: cfg.ProcessMatch,
		ModuleNames:  cfg.ModuleNames,
	}
}

// ProvideStateCache 创建状态文件缓存
func ProvideStateCache(cfg *config.HostConfig, clk clock.Clock) *StateCache {
	reader := NewStateReader(cfg.ResolveStateRoot(), cfg.StateFileName)
	return NewStateCache(reader, clk, cfg.StateCacheTTL)
}

// ProviderSet 宿主对接 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideProcessMatcher,
	ProvideStateCache,
	NewPathResolver,
	NewProber,
	NewLauncher,
	NewPreviewCapturer,
)
