package notification

import "time"

// Notification 通知实体（托盘气泡 / UI 提示）
type Notification struct {
	ID        string
	Title     string
	Message   string
	Type      Type
	// Source 产生通知的组件，如 snapshot、session
	Source    string
	CreatedAt time.Time
}

// Type 通知类型
type Type int

const (
	// TypeInfo 信息通知
	TypeInfo Type = iota + 1
	// TypeWarning 警告通知
	TypeWarning
	// TypeError 错误通知
	TypeError
)

// String 返回类型名
func (t Type) String() string {
	switch t {
	case TypeWarning:
		return "warning"
	case TypeError:
		return "error"
	default:
		return "info"
	}
}
