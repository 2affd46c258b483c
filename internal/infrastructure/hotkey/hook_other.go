//go:build !windows

package hotkey

// Hook 非 Windows 平台的占位实现
type Hook struct {
	decider Decider
}

// NewHook 创建钩子
func NewHook(decider Decider) *Hook {
	return &Hook{decider: decider}
}

// Start 返回 ErrUnsupported
func (h *Hook) Start() error {
	return ErrUnsupported
}

// Close 无事可做
func (h *Hook) Close() error {
	return nil
}
