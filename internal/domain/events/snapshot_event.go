package events

import "time"

// SnapshotEvent 快照创建 / 恢复事件
type SnapshotEvent struct {
	// EventType 事件类型
	EventType EventType `json:"type"`
	// ProjectPath 被跟踪的项目文件
	ProjectPath string `json:"project_path"`
	// SnapshotPath 相关的快照文件
	SnapshotPath string `json:"snapshot_path"`
	// TargetPath 恢复目标（撤销/重做为项目文件，副本恢复为新文件）
	TargetPath string `json:"target_path,omitempty"`
	// Reason 创建原因
	Reason string `json:"reason,omitempty"`
	// ContentHash 快照内容的 xxh3 摘要（十六进制）
	ContentHash string `json:"content_hash,omitempty"`
	// EventTime 事件发生时间
	EventTime time.Time `json:"time"`
}

// Type 实现 Event 接口
func (e *SnapshotEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *SnapshotEvent) Timestamp() time.Time {
	return e.EventTime
}
