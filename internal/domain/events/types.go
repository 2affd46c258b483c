// Package events 定义领域事件类型和接口
// 用于会话协调器向 UI 层、日志和快照日志簿广播状态变化
package events

import "time"

// EventType 事件类型标识
type EventType string

// 快捷键相关事件类型
const (
	// UndoRequested 宿主在前台时按下 Ctrl+Z
	UndoRequested EventType = "hotkey.undo_requested"
	// RedoRequested 宿主在前台时按下 Ctrl+Y
	RedoRequested EventType = "hotkey.redo_requested"
	// ReviewRequested 宿主在前台时按下 Ctrl+R
	ReviewRequested EventType = "hotkey.review_requested"
	// SaveIntentObserved 宿主在前台时按下 Ctrl+S
	SaveIntentObserved EventType = "hotkey.save_intent_observed"
)

// 保存检测相关事件类型
const (
	// SaveExpectedButNotObserved 保存快捷键之后超时未观察到文件变化
	SaveExpectedButNotObserved EventType = "save.expected_not_observed"
	// ProjectFileChanged 被跟踪的项目文件在磁盘上发生变化
	ProjectFileChanged EventType = "project.file_changed"
)

// 会话相关事件类型
const (
	// ProjectBound 开始跟踪项目文件
	ProjectBound EventType = "session.project_bound"
	// ProjectUnbound 停止跟踪项目文件
	ProjectUnbound EventType = "session.project_unbound"
	// ResolutionRequired 无法自动定位项目文件，需要用户手动选择
	ResolutionRequired EventType = "session.resolution_required"
)

// 快照相关事件类型
const (
	// SnapshotCreated 快照已写入磁盘
	SnapshotCreated EventType = "snapshot.created"
	// SnapshotRestored 撤销/重做把快照恢复到了项目文件
	SnapshotRestored EventType = "snapshot.restored"
	// SnapshotRestoredAsCopy 快照以副本形式恢复
	SnapshotRestoredAsCopy EventType = "snapshot.restored_as_copy"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}

// AllTypes 返回全部事件类型，供需要转发所有事件的订阅者使用
func AllTypes() []EventType {
	return []EventType{
		UndoRequested,
		RedoRequested,
		ReviewRequested,
		SaveIntentObserved,
		SaveExpectedButNotObserved,
		ProjectFileChanged,
		ProjectBound,
		ProjectUnbound,
		ResolutionRequired,
		SnapshotCreated,
		SnapshotRestored,
		SnapshotRestoredAsCopy,
	}
}
