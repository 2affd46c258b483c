package hotkey

import (
	"errors"

	"github.com/estlcameo/backend/internal/domain/hotkey"
)

var (
	// ErrUnsupported 当前平台不支持全局键盘钩子
	ErrUnsupported = errors.New("global keyboard hook is not supported on this platform")
	// ErrHookActive 进程内已经安装了钩子
	ErrHookActive = errors.New("keyboard hook already installed")
)

// Decider 对按键做出判定
type Decider interface {
	Decide(vk uint32, ctrlDown bool) hotkey.Decision
}
