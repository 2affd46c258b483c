package snapshot

import (
	"log/slog"

	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/google/uuid"
)

// JournalRecorder 把快照事件写入日志簿
type JournalRecorder struct {
	repo        snapshot.JournalRepository
	bus         events.EventBus
	unsubscribe func()
	logger      *slog.Logger
}

// NewJournalRecorder 创建日志簿记录器
func NewJournalRecorder(repo snapshot.JournalRepository, bus events.EventBus) *JournalRecorder {
	return &JournalRecorder{
		repo:   repo,
		bus:    bus,
		logger: log.NewModuleLogger("snapshot", "journal"),
	}
}

// Start 订阅快照事件
func (r *JournalRecorder) Start() {
	if r.unsubscribe != nil {
		return
	}
	r.unsubscribe = r.bus.SubscribeMultiple([]events.EventType{
		events.SnapshotCreated,
		events.SnapshotRestored,
		events.SnapshotRestoredAsCopy,
	}, events.HandlerFunc(r.handle))
}

// Stop 取消订阅
func (r *JournalRecorder) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// List 某个项目文件的记录，projectPath 为空时返回全部
func (r *JournalRecorder) List(projectPath string, limit int) ([]*snapshot.JournalEntry, error) {
	if projectPath == "" {
		return r.repo.ListRecent(limit)
	}
	return r.repo.ListByProject(projectPath, limit)
}

func (r *JournalRecorder) handle(event events.Event) error {
	e, ok := event.(*events.SnapshotEvent)
	if !ok {
		return nil
	}

	entry := &snapshot.JournalEntry{
		ID:           uuid.New().String(),
		ProjectPath:  e.ProjectPath,
		SnapshotPath: e.SnapshotPath,
		TargetPath:   e.TargetPath,
		Action:       actionFor(e.EventType),
		Reason:       e.Reason,
		ContentHash:  e.ContentHash,
		CreatedAt:    e.EventTime,
	}
	if err := r.repo.Append(entry); err != nil {
		r.logger.Warn("Failed to append journal entry", "snapshot", e.SnapshotPath, "error", err)
		return err
	}
	return nil
}

func actionFor(t events.EventType) snapshot.JournalAction {
	switch t {
	case events.SnapshotRestored:
		return snapshot.ActionRestored
	case events.SnapshotRestoredAsCopy:
		return snapshot.ActionRestoredAsCopy
	default:
		return snapshot.ActionCreated
	}
}
