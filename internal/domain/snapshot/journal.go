package snapshot

import "time"

// JournalAction 日志簿中的动作
type JournalAction string

const (
	// ActionCreated 创建快照
	ActionCreated JournalAction = "created"
	// ActionRestored 撤销/重做恢复到项目文件
	ActionRestored JournalAction = "restored"
	// ActionRestoredAsCopy 恢复为副本
	ActionRestoredAsCopy JournalAction = "restored_as_copy"
)

// JournalEntry 快照操作的持久化记录
// 磁盘上的快照目录才是时间线的事实来源，日志簿只用于审计和统计
type JournalEntry struct {
	ID           string        `json:"id"`
	ProjectPath  string        `json:"project_path"`
	SnapshotPath string        `json:"snapshot_path"`
	TargetPath   string        `json:"target_path,omitempty"`
	Action       JournalAction `json:"action"`
	Reason       string        `json:"reason,omitempty"`
	ContentHash  string        `json:"content_hash,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// JournalRepository 快照日志簿仓储
type JournalRepository interface {
	Append(entry *JournalEntry) error
	// ListByProject 某个项目文件的记录，按时间倒序
	ListByProject(projectPath string, limit int) ([]*JournalEntry, error)
	// ListRecent 全部记录，按时间倒序
	ListRecent(limit int) ([]*JournalEntry, error)
}
