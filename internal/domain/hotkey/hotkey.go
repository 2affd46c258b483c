// Package hotkey 定义全局快捷键的识别结果
package hotkey

// 虚拟键码
const (
	VKControl uint32 = 0x11
	VKR       uint32 = 0x52
	VKS       uint32 = 0x53
	VKY       uint32 = 0x59
	VKZ       uint32 = 0x5A
)

// Intent 快捷键意图
type Intent int

const (
	// IntentNone 不关心的按键
	IntentNone Intent = iota
	// IntentUndo Ctrl+Z
	IntentUndo
	// IntentRedo Ctrl+Y
	IntentRedo
	// IntentReview Ctrl+R
	IntentReview
	// IntentSave Ctrl+S
	IntentSave
)

// String 返回意图名
func (i Intent) String() string {
	switch i {
	case IntentUndo:
		return "undo"
	case IntentRedo:
		return "redo"
	case IntentReview:
		return "review"
	case IntentSave:
		return "save"
	default:
		return "none"
	}
}

// Action 对按键的处置
type Action int

const (
	// Forward 交给系统继续传递
	Forward Action = iota
	// Swallow 吞掉，宿主收不到
	Swallow
)

// Decision 一次按键的判定结果
type Decision struct {
	Action Action
	Intent Intent
}

// IntentForKey Ctrl 组合键对应的意图
func IntentForKey(vk uint32) Intent {
	switch vk {
	case VKZ:
		return IntentUndo
	case VKY:
		return IntentRedo
	case VKR:
		return IntentReview
	case VKS:
		return IntentSave
	default:
		return IntentNone
	}
}
