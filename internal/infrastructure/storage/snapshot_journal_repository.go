package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/google/uuid"
)

// defaultJournalLimit 未指定 limit 时的返回条数
const defaultJournalLimit = 100

// snapshotJournalRepository 快照日志簿 SQLite 仓储实现
type snapshotJournalRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSnapshotJournalRepository 创建快照日志簿仓储实例
func NewSnapshotJournalRepository(db *sql.DB) snapshot.JournalRepository {
	logger := log.NewModuleLogger("storage", "snapshot_journal")
	// 确保表存在
	if err := initSnapshotJournalTable(db); err != nil {
		logger.Error("Failed to init snapshot_journal table", "error", err)
	}
	return &snapshotJournalRepository{db: db, logger: logger}
}

// initSnapshotJournalTable 初始化日志簿表
func initSnapshotJournalTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS snapshot_journal (
		id TEXT PRIMARY KEY,
		project_path TEXT NOT NULL,
		snapshot_path TEXT NOT NULL,
		target_path TEXT,
		action TEXT NOT NULL,
		reason TEXT,
		content_hash TEXT,
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create snapshot_journal table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_snapshot_journal_project ON snapshot_journal(project_path, created_at);
	CREATE INDEX IF NOT EXISTS idx_snapshot_journal_created_at ON snapshot_journal(created_at);
	`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create snapshot_journal indexes: %w", err)
	}

	return nil
}

// Append 追加一条记录，ID 为空时自动生成
func (r *snapshotJournalRepository) Append(entry *snapshot.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO snapshot_journal (id, project_path, snapshot_path, target_path, action, reason, content_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query,
		entry.ID,
		entry.ProjectPath,
		entry.SnapshotPath,
		nullString(entry.TargetPath),
		string(entry.Action),
		nullString(entry.Reason),
		nullString(entry.ContentHash),
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// ListByProject 某个项目文件的记录，按时间倒序
func (r *snapshotJournalRepository) ListByProject(projectPath string, limit int) ([]*snapshot.JournalEntry, error) {
	query := `
	SELECT id, project_path, snapshot_path, target_path, action, reason, content_hash, created_at
	FROM snapshot_journal
	WHERE project_path = ? COLLATE NOCASE
	ORDER BY created_at DESC
	LIMIT ?`

	return r.query(query, projectPath, normalizeLimit(limit))
}

// ListRecent 全部记录，按时间倒序
func (r *snapshotJournalRepository) ListRecent(limit int) ([]*snapshot.JournalEntry, error) {
	query := `
	SELECT id, project_path, snapshot_path, target_path, action, reason, content_hash, created_at
	FROM snapshot_journal
	ORDER BY created_at DESC
	LIMIT ?`

	return r.query(query, normalizeLimit(limit))
}

func (r *snapshotJournalRepository) query(query string, args ...interface{}) ([]*snapshot.JournalEntry, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*snapshot.JournalEntry
	for rows.Next() {
		var (
			entry                snapshot.JournalEntry
			target, reason, hash sql.NullString
			action               string
			createdAt            int64
		)
		if err := rows.Scan(&entry.ID, &entry.ProjectPath, &entry.SnapshotPath, &target, &action, &reason, &hash, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entry.TargetPath = target.String
		entry.Action = snapshot.JournalAction(action)
		entry.Reason = reason.String
		entry.ContentHash = hash.String
		entry.CreatedAt = time.UnixMilli(createdAt)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}

	return entries, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultJournalLimit
	}
	return limit
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
