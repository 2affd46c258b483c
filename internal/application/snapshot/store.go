// Package snapshot 实现快照引擎：创建、列出、撤销/重做恢复和副本恢复
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/zeebo/xxh3"
)

// maxNameSuffix 同名冲突时追加后缀的上限
const maxNameSuffix = 10000

const notificationSource = "snapshot"

// ChangeWatcher 监听单个文件的变化
type ChangeWatcher interface {
	Watch(path string, onChange func(path string)) error
	Unwatch()
}

// PreviewCapturer 截取宿主窗口预览图
type PreviewCapturer interface {
	CapturePNG(dest string) error
}

// HostLauncher 宿主侧的副作用
type HostLauncher interface {
	ReopenFile(path string) error
	OpenFolder(dir string) error
}

// Notifier 用户可见的通知
type Notifier interface {
	Notify(source, title, message string, t notification.Type)
}

// Store 一个被跟踪项目文件的快照时间线
// 快照操作都在 mu 下串行执行，重试复制期间也持有锁
// tracked 的修改同时持有 mu 和 stateMu，只读 tracked 的查询和保存期待只取 stateMu，
// 不会被进行中的复制阻塞
type Store struct {
	mu             sync.Mutex
	stateMu        sync.RWMutex
	tracked        *snapshot.TrackedFile
	timeline       *snapshot.Timeline
	lastSnapshotAt time.Time
	// restoredDigest 最近一次撤销/重做写回的内容摘要，用于忽略恢复引起的文件变化
	restoredDigest *uint64

	hookMu        sync.RWMutex
	onFileChanged func(path string)

	cfg      *config.SnapshotConfig
	clock    clock.Clock
	copier   *Copier
	expect   *SaveExpectation
	watcher  ChangeWatcher
	preview  PreviewCapturer
	launcher HostLauncher
	notifier Notifier
	bus      events.EventBus
	logger   *slog.Logger
}

// NewStore 创建快照引擎，初始不跟踪任何文件
func NewStore(
	cfg *config.SnapshotConfig,
	clk clock.Clock,
	watcher ChangeWatcher,
	preview PreviewCapturer,
	launcher HostLauncher,
	notifier Notifier,
	bus events.EventBus,
) *Store {
	return &Store{
		timeline: snapshot.NewTimeline(),
		cfg:      cfg,
		clock:    clk,
		copier:   NewCopier(cfg, clk),
		expect:   NewSaveExpectation(clk),
		watcher:  watcher,
		preview:  preview,
		launcher: launcher,
		notifier: notifier,
		bus:      bus,
		logger:   log.NewModuleLogger("snapshot", "store"),
	}
}

// OnFileChanged 设置被跟踪文件变化时的处理函数
// 未设置时在监听器的 goroutine 中直接调用 HandleFileChanged
func (s *Store) OnFileChanged(fn func(path string)) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.onFileChanged = fn
}

// OnSaveMissed 设置保存快捷键后超时未观察到写入的回调
func (s *Store) OnSaveMissed(fn func()) {
	s.expect.OnMissed(fn)
}

// SetTrackedFile 切换被跟踪的文件，重新扫描快照目录并重新安装监听
// 已经在跟踪同一路径（不区分大小写）时什么都不做
func (s *Store) SetTrackedFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("project path is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked != nil && s.tracked.Is(path) {
		return nil
	}

	tf := snapshot.NewTrackedFile(path)
	if err := os.MkdirAll(tf.SnapshotDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	s.setTracked(&tf)
	s.lastSnapshotAt = time.Time{}
	s.restoredDigest = nil
	s.timeline.Clear()
	s.rescanLocked()

	if s.watcher != nil {
		if err := s.watcher.Watch(tf.Path, s.handleWatchEvent); err != nil {
			s.logger.Warn("Failed to watch project file", "path", tf.Path, "error", err)
		}
	}

	s.logger.Info("Now tracking project file",
		"path", tf.Path,
		"snapshot_dir", tf.SnapshotDir,
		"snapshots", s.timeline.Len(),
	)
	return nil
}

// Detach 停止跟踪，返回之前跟踪的路径
// 不会为旧文件补拍快照
func (s *Store) Detach() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == nil {
		return ""
	}
	prev := s.tracked.Path

	if s.watcher != nil {
		s.watcher.Unwatch()
	}
	s.setTracked(nil)
	s.restoredDigest = nil
	s.timeline.Clear()

	s.logger.Info("Stopped tracking project file", "path", prev)
	return prev
}

// setTracked 调用方持有 mu，旧文件上的保存期待随之取消
func (s *Store) setTracked(tf *snapshot.TrackedFile) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.expect.Cancel()
	s.tracked = tf
}

// TrackedFile 当前被跟踪的文件
func (s *Store) TrackedFile() (snapshot.TrackedFile, bool) {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	if s.tracked == nil {
		return snapshot.TrackedFile{}, false
	}
	return *s.tracked, true
}

// Position 当前位置和快照数量
func (s *Store) Position() (cursor, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeline.Cursor(), s.timeline.Len()
}

// ExpectSave 保存快捷键被按下，等待文件写入
// 在 stateMu 读锁下布置，切换或解除跟踪时的取消不会与之交错
func (s *Store) ExpectSave() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	if s.tracked == nil {
		s.logger.Debug("Save expected but no project file is tracked")
		return false
	}
	s.expect.Arm(s.cfg.SaveExpectationTimeout)
	return true
}

// SaveExpected 是否正在等待保存
func (s *Store) SaveExpected() bool {
	return s.expect.Armed()
}

// handleWatchEvent 监听器回调，先清除保存期待再交给处理函数
func (s *Store) handleWatchEvent(path string) {
	s.expect.Observe()

	s.hookMu.RLock()
	fn := s.onFileChanged
	s.hookMu.RUnlock()

	if fn != nil {
		fn(path)
		return
	}
	s.HandleFileChanged(path)
}

// HandleFileChanged 被跟踪文件在磁盘上变化后生成快照
// 距上次快照太近或内容与刚恢复的快照相同时跳过
func (s *Store) HandleFileChanged(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == nil || !s.tracked.Is(path) {
		s.logger.Debug("Ignoring change of untracked file", "path", path)
		return
	}

	now := s.clock.Now()
	if !s.lastSnapshotAt.IsZero() && now.Sub(s.lastSnapshotAt) < s.cfg.DuplicateWindow {
		s.logger.Debug("Skipping snapshot, too soon since last one", "path", path)
		return
	}

	if s.restoredDigest != nil {
		want := *s.restoredDigest
		s.restoredDigest = nil
		if got, err := fileDigest(s.tracked.Path); err == nil && got == want {
			s.logger.Debug("Skipping snapshot, file matches restored snapshot", "path", path)
			return
		}
	}

	if _, err := s.createLocked("file change"); err != nil {
		s.logger.Debug("No snapshot created for file change", "path", path, "error", err)
	}
}

// CreateSnapshot 立即为被跟踪文件生成快照
func (s *Store) CreateSnapshot(reason string) (snapshot.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(reason)
}

func (s *Store) createLocked(reason string) (snapshot.Record, error) {
	if s.tracked == nil {
		return snapshot.Record{}, snapshot.ErrNoTrackedFile
	}
	tf := *s.tracked

	if _, err := os.Stat(tf.Path); err != nil {
		s.logger.Debug("Project file no longer exists", "path", tf.Path)
		return snapshot.Record{}, fmt.Errorf("%w: %s", snapshot.ErrProjectFileMissing, tf.Path)
	}
	if err := os.MkdirAll(tf.SnapshotDir, 0755); err != nil {
		return snapshot.Record{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	// 时间戳取调用时刻，而不是重试结束的时刻
	now := s.clock.Now()
	stamp := snapshot.FormatStamp(now)
	dest, err := nextFreePath(func(n int) string {
		return filepath.Join(tf.SnapshotDir, snapshot.SnapshotFileName(stamp, n, tf.Ext))
	})
	if err != nil {
		return snapshot.Record{}, err
	}

	s.logger.Debug("Creating snapshot", "reason", reason, "dest", dest)
	attempts, err := s.copier.Copy(tf.Path, dest)
	if err != nil {
		s.logger.Warn("Snapshot abandoned",
			"path", tf.Path,
			"dest", dest,
			"attempts", attempts,
			"error", err,
		)
		return snapshot.Record{}, fmt.Errorf("failed to create snapshot: %w", err)
	}

	s.lastSnapshotAt = now
	s.restoredDigest = nil

	ts, _ := snapshot.ParseStamp(stamp)
	rec := snapshot.Record{Timestamp: ts, SnapshotPath: dest}
	if s.cfg.CapturePreview && s.preview != nil {
		previewPath := snapshot.PreviewPathFor(dest)
		if err := s.preview.CapturePNG(previewPath); err != nil {
			s.logger.Debug("Preview not captured", "path", previewPath, "error", err)
		} else {
			rec.PreviewPath = previewPath
		}
	}
	s.timeline.Add(rec)

	s.logger.Info("Snapshot created",
		"project", tf.Path,
		"snapshot", dest,
		"reason", reason,
		"attempts", attempts,
	)

	s.publish(&events.SnapshotEvent{
		EventType:    events.SnapshotCreated,
		ProjectPath:  tf.Path,
		SnapshotPath: dest,
		Reason:       reason,
		ContentHash:  digestHex(dest),
		EventTime:    now,
	})
	s.notify("Snapshot saved", filepath.Base(dest), notification.TypeInfo)

	return rec.WithRelativeAge(now), nil
}

// Undo 恢复到上一个快照，已在最早位置时返回 false
func (s *Store) Undo() (bool, error) {
	return s.step(-1)
}

// Redo 恢复到下一个快照，已在最新位置时返回 false
func (s *Store) Redo() (bool, error) {
	return s.step(1)
}

// step 只有恢复成功才移动位置
func (s *Store) step(delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == nil {
		s.logger.Debug("Undo/redo skipped, no project file is tracked")
		return false, snapshot.ErrNoTrackedFile
	}

	rec, index, ok := s.timeline.Step(delta)
	if !ok {
		s.logger.Debug("Undo/redo at timeline boundary", "cursor", s.timeline.Cursor(), "count", s.timeline.Len())
		return false, nil
	}

	if err := s.restoreLocked(rec); err != nil {
		return false, err
	}
	s.timeline.Commit(index)
	return true, nil
}

func (s *Store) restoreLocked(rec snapshot.Record) error {
	tf := *s.tracked

	if !fileExists(rec.SnapshotPath) {
		s.logger.Warn("Snapshot not found", "snapshot", rec.SnapshotPath)
		s.notify("Snapshot file no longer exists", rec.SnapshotPath, notification.TypeWarning)
		return fmt.Errorf("%w: %s", snapshot.ErrSnapshotMissing, rec.SnapshotPath)
	}
	if !dirExists(tf.Dir()) {
		s.logger.Warn("Project directory missing", "dir", tf.Dir())
		s.notify("Project folder is missing, cannot restore", tf.Dir(), notification.TypeWarning)
		return fmt.Errorf("%w: %s", snapshot.ErrProjectDirMissing, tf.Dir())
	}

	if err := replaceFile(rec.SnapshotPath, tf.Path); err != nil {
		s.logger.Error("Restore failed", "snapshot", rec.SnapshotPath, "target", tf.Path, "error", err)
		s.notify("Failed to restore snapshot", err.Error(), notification.TypeError)
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	if digest, err := fileDigest(tf.Path); err == nil {
		s.restoredDigest = &digest
	}

	if s.launcher != nil {
		if err := s.launcher.ReopenFile(tf.Path); err != nil {
			s.logger.Warn("Failed to reopen restored file", "path", tf.Path, "error", err)
		}
	}

	s.logger.Info("Snapshot restored", "snapshot", rec.SnapshotPath, "target", tf.Path)
	s.publish(&events.SnapshotEvent{
		EventType:    events.SnapshotRestored,
		ProjectPath:  tf.Path,
		SnapshotPath: rec.SnapshotPath,
		TargetPath:   tf.Path,
		ContentHash:  digestHex(tf.Path),
		EventTime:    s.clock.Now(),
	})
	s.notify("Restored snapshot", filepath.Base(rec.SnapshotPath), notification.TypeInfo)
	return nil
}

// RestoreAsCopy 把快照复制到项目目录下的新文件，从不覆盖已有文件
func (s *Store) RestoreAsCopy(snapshotPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == nil {
		return "", snapshot.ErrNoTrackedFile
	}
	tf := *s.tracked

	if !strings.EqualFold(filepath.Clean(filepath.Dir(snapshotPath)), filepath.Clean(tf.SnapshotDir)) {
		return "", fmt.Errorf("%w: %s", snapshot.ErrForeignSnapshot, snapshotPath)
	}
	info, err := os.Stat(snapshotPath)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", snapshot.ErrSnapshotMissing, snapshotPath)
	}
	if !dirExists(tf.Dir()) {
		return "", fmt.Errorf("%w: %s", snapshot.ErrProjectDirMissing, tf.Dir())
	}

	stamp := snapshot.FormatStamp(recordFromFile(snapshotPath, info).Timestamp)
	var target string
	for n := 0; n < maxNameSuffix; n++ {
		candidate := filepath.Join(tf.Dir(), snapshot.RestoredCopyName(tf.BaseName(), stamp, n, tf.Ext))
		err := copyFileExclusive(snapshotPath, candidate)
		if err == nil {
			target = candidate
			break
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("failed to restore snapshot as copy: %w", err)
		}
	}
	if target == "" {
		return "", fmt.Errorf("no free file name for restored copy of %s", snapshotPath)
	}

	s.logger.Info("Snapshot restored as copy", "snapshot", snapshotPath, "target", target)
	s.publish(&events.SnapshotEvent{
		EventType:    events.SnapshotRestoredAsCopy,
		ProjectPath:  tf.Path,
		SnapshotPath: snapshotPath,
		TargetPath:   target,
		EventTime:    s.clock.Now(),
	})
	s.notify("Restored snapshot as copy", filepath.Base(target), notification.TypeInfo)
	return target, nil
}

// ListSnapshots 重新扫描磁盘后返回全部快照，未跟踪时为空
func (s *Store) ListSnapshots() []snapshot.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tracked == nil {
		return []snapshot.Record{}
	}
	s.rescanLocked()

	now := s.clock.Now()
	records := s.timeline.Records()
	for i := range records {
		records[i] = records[i].WithRelativeAge(now)
	}
	return records
}

// OpenFolder 在文件管理器中打开快照目录
func (s *Store) OpenFolder() (string, error) {
	s.mu.Lock()
	if s.tracked == nil {
		s.mu.Unlock()
		return "", snapshot.ErrNoTrackedFile
	}
	dir := s.tracked.SnapshotDir
	s.mu.Unlock()

	if s.launcher == nil {
		return dir, errors.New("folder opening is not available")
	}
	if err := s.launcher.OpenFolder(dir); err != nil {
		s.logger.Warn("Failed to open snapshot folder", "dir", dir, "error", err)
		s.notify("Unable to open snapshot folder", dir, notification.TypeWarning)
		return dir, err
	}
	return dir, nil
}

// rescanLocked 从快照目录重建时间线，只收集与项目文件扩展名相同的文件
func (s *Store) rescanLocked() {
	tf := s.tracked
	entries, err := os.ReadDir(tf.SnapshotDir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to scan snapshot directory", "dir", tf.SnapshotDir, "error", err)
		}
		s.timeline.Replace(nil)
		return
	}

	records := make([]snapshot.Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), tf.Ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		records = append(records, recordFromFile(filepath.Join(tf.SnapshotDir, entry.Name()), info))
	}
	s.timeline.Replace(records)
}

func (s *Store) publish(event events.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func (s *Store) notify(title, message string, t notification.Type) {
	if s.notifier != nil {
		s.notifier.Notify(notificationSource, title, message, t)
	}
}

// recordFromFile 时间取自文件名，无法解析时使用文件创建时间
func recordFromFile(path string, info fs.FileInfo) snapshot.Record {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	ts, ok := snapshot.ParseStamp(stem)
	if !ok {
		ts = creationTime(info)
	}

	rec := snapshot.Record{Timestamp: ts, SnapshotPath: path}
	if previewPath := snapshot.PreviewPathFor(path); fileExists(previewPath) {
		rec.PreviewPath = previewPath
	}
	return rec
}

// nextFreePath 从 n=0 开始找第一个不存在的路径
func nextFreePath(name func(n int) string) (string, error) {
	for n := 0; n < maxNameSuffix; n++ {
		p := name(n)
		if _, err := os.Lstat(p); errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
	}
	return "", errors.New("no free snapshot file name")
}

// fileDigest 文件内容的 xxh3 摘要
func fileDigest(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func digestHex(path string) string {
	d, err := fileDigest(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", d)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
