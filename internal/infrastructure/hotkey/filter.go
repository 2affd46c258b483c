// Package hotkey 全局键盘钩子和快捷键过滤
package hotkey

import (
	"log/slog"
	"sync/atomic"

	"github.com/estlcameo/backend/internal/domain/hotkey"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// ForegroundChecker 判断宿主是否在前台
type ForegroundChecker interface {
	IsTargetForeground() bool
}

// Sink 接收识别出的快捷键意图，必须立即返回
type Sink func(intent hotkey.Intent)

// Filter 对每次按键做出放行/吞掉的判定
// 在钩子线程上同步执行，除前台探测外不做任何阻塞操作
type Filter struct {
	probe  ForegroundChecker
	sink   atomic.Pointer[Sink]
	logger *slog.Logger
}

// NewFilter 创建快捷键过滤器
func NewFilter(probe ForegroundChecker) *Filter {
	return &Filter{
		probe:  probe,
		logger: log.NewModuleLogger("hotkey", "filter"),
	}
}

// SetSink 设置意图接收方
func (f *Filter) SetSink(sink Sink) {
	f.sink.Store(&sink)
}

// Decide 判定一次按下事件
// Ctrl+Z/Y/R 在宿主前台时被吞掉，Ctrl+S 总是放行，其余按键直接放行
func (f *Filter) Decide(vk uint32, ctrlDown bool) hotkey.Decision {
	// 快速路径：没按 Ctrl 或不是关心的键
	if !ctrlDown {
		return hotkey.Decision{Action: hotkey.Forward}
	}
	intent := hotkey.IntentForKey(vk)
	if intent == hotkey.IntentNone {
		return hotkey.Decision{Action: hotkey.Forward}
	}

	if !f.targetFocused() {
		return hotkey.Decision{Action: hotkey.Forward}
	}

	f.emit(intent)

	if intent == hotkey.IntentSave {
		return hotkey.Decision{Action: hotkey.Forward, Intent: intent}
	}
	return hotkey.Decision{Action: hotkey.Swallow, Intent: intent}
}

// targetFocused 探测失败视为不在前台
func (f *Filter) targetFocused() (focused bool) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Foreground probe panicked", "panic", r)
			focused = false
		}
	}()
	return f.probe.IsTargetForeground()
}

func (f *Filter) emit(intent hotkey.Intent) {
	p := f.sink.Load()
	if p == nil || *p == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("Hotkey sink panicked", "intent", intent.String(), "panic", r)
		}
	}()
	(*p)(intent)
}
