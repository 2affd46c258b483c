package events

import "time"

// SessionEvent 会话与快捷键事件
type SessionEvent struct {
	// EventType 事件类型
	EventType EventType `json:"type"`
	// ProjectPath 当前跟踪（或刚解除跟踪）的项目文件，未绑定时为空
	ProjectPath string `json:"project_path,omitempty"`
	// FileName 窗口标题中解析出的文件名
	FileName string `json:"file_name,omitempty"`
	// Detail 附加说明
	Detail string `json:"detail,omitempty"`
	// EventTime 事件发生时间
	EventTime time.Time `json:"time"`
}

// Type 实现 Event 接口
func (e *SessionEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *SessionEvent) Timestamp() time.Time {
	return e.EventTime
}
