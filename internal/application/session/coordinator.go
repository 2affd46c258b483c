// Package session 协调快捷键、文件变化和界面命令，维护“未绑定 / 已绑定”状态
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	appsnapshot "github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/domain/hotkey"
	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// inboxSize 收件箱容量，满了以后快捷键和文件变化事件会被丢弃
const inboxSize = 64

const notificationSource = "session"

// Resolver 根据窗口标题中的文件名定位项目文件
type Resolver interface {
	Resolve(fileName string) (string, bool)
	State() host.ProjectState
}

// Notifier 用户可见的通知
type Notifier interface {
	Notify(source, title, message string, t notification.Type)
}

// Status 当前会话状态
type Status struct {
	Bound          bool   `json:"bound"`
	ProjectPath    string `json:"project_path,omitempty"`
	SnapshotDir    string `json:"snapshot_dir,omitempty"`
	Cursor         int    `json:"cursor"`
	Count          int    `json:"count"`
	SaveExpected   bool   `json:"save_expected"`
	HostForeground bool   `json:"host_foreground"`
	ActiveFileName string `json:"active_file_name,omitempty"`
}

// Coordinator 会话协调器
// 所有状态转换都在 Run 的 goroutine 中串行执行，快捷键和文件变化只投递消息不等待
type Coordinator struct {
	store    *appsnapshot.Store
	prober   host.Prober
	resolver Resolver
	prompter Prompter
	notifier Notifier
	bus      events.EventBus
	clock    clock.Clock
	exts     []string

	inbox   chan func()
	workers sync.WaitGroup
	logger  *slog.Logger
}

// NewCoordinator 创建会话协调器，并接管快照引擎的文件变化和保存超时回调
func NewCoordinator(
	store *appsnapshot.Store,
	prober host.Prober,
	resolver Resolver,
	prompter Prompter,
	notifier Notifier,
	bus events.EventBus,
	clk clock.Clock,
	hostCfg *config.HostConfig,
) *Coordinator {
	c := &Coordinator{
		store:    store,
		prober:   prober,
		resolver: resolver,
		prompter: prompter,
		notifier: notifier,
		bus:      bus,
		clock:    clk,
		exts:     hostCfg.ProjectExtensions,
		inbox:    make(chan func(), inboxSize),
		logger:   log.NewModuleLogger("session", "coordinator"),
	}
	store.OnFileChanged(func(path string) {
		c.post("file_changed", func() { c.handleFileChanged(path) })
	})
	store.OnSaveMissed(func() {
		c.post("save_missed", c.handleSaveMissed)
	})
	return c
}

// Run 处理收件箱直到 ctx 取消，返回前等待后台快照任务结束
func (c *Coordinator) Run(ctx context.Context) {
	c.logger.Info("Session coordinator started")
	defer c.logger.Info("Session coordinator stopped")

	for {
		select {
		case <-ctx.Done():
			c.workers.Wait()
			return
		case fn := <-c.inbox:
			c.safely(fn)
		}
	}
}

// HandleIntent 快捷键过滤器的出口，只投递不阻塞
func (c *Coordinator) HandleIntent(intent hotkey.Intent) {
	switch intent {
	case hotkey.IntentUndo:
		c.publishSession(events.UndoRequested, "", "")
		c.post(intent.String(), c.handleUndo)
	case hotkey.IntentRedo:
		c.publishSession(events.RedoRequested, "", "")
		c.post(intent.String(), c.handleRedo)
	case hotkey.IntentReview:
		c.post(intent.String(), c.handleReview)
	case hotkey.IntentSave:
		c.publishSession(events.SaveIntentObserved, "", "")
		c.post(intent.String(), c.handleSave)
	}
}

// post 非阻塞投递
func (c *Coordinator) post(name string, fn func()) {
	select {
	case c.inbox <- fn:
	default:
		c.logger.Warn("Coordinator inbox full, dropping message", "message", name)
	}
}

// do 在协调器 goroutine 中执行 fn 并等待结果
func (c *Coordinator) do(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	task := func() { done <- fn() }

	select {
	case c.inbox <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// spawn 在后台执行可能阻塞重试的快照任务
func (c *Coordinator) spawn(fn func()) {
	c.workers.Add(1)
	go func() {
		defer c.workers.Done()
		c.safely(fn)
	}()
}

func (c *Coordinator) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Coordinator task panicked", "panic", r)
		}
	}()
	fn()
}

// --- 快捷键与文件事件 ---

func (c *Coordinator) handleSave() {
	active, ok := c.activeProjectFileName()
	if !ok {
		c.logger.Debug("Save ignored, host shows no project file")
		return
	}

	if _, bound := c.store.TrackedFile(); bound {
		if c.detachIfSwitched(active, "Press Ctrl+S again on this new project to start tracking it.") {
			return
		}
		c.store.ExpectSave()
		return
	}

	path, ok := c.bindForeground(active, "Snapshot not created")
	if !ok {
		return
	}
	if _, err := c.store.CreateSnapshot("First attach via save hotkey"); err != nil {
		c.logger.Warn("First snapshot not created", "path", path, "error", err)
	}
	c.notify("Now tracking this project", filepath.Base(path), notification.TypeInfo)
}

func (c *Coordinator) handleReview() {
	active, ok := c.activeProjectFileName()
	if !ok {
		c.logger.Debug("Review ignored, host shows no project file")
		return
	}

	if _, bound := c.store.TrackedFile(); bound {
		if c.detachIfSwitched(active, "Press Ctrl+S on this new project to start tracking it, then press Ctrl+R to review its snapshots.") {
			return
		}
	} else {
		path, ok := c.bindForeground(active, "No project selected")
		if !ok {
			return
		}
		c.notify("Now tracking this project", filepath.Base(path), notification.TypeInfo)
	}

	tf, _ := c.store.TrackedFile()
	c.publishSession(events.ReviewRequested, tf.Path, active)
}

func (c *Coordinator) handleUndo() {
	c.step("undo", c.store.Undo)
}

func (c *Coordinator) handleRedo() {
	c.step("redo", c.store.Redo)
}

func (c *Coordinator) step(name string, move func() (bool, error)) {
	if !c.prober.IsTargetForeground() {
		c.logger.Debug("Hotkey ignored, host not in foreground", "action", name)
		return
	}
	active, ok := c.activeProjectFileName()
	if !ok {
		c.logger.Debug("Hotkey ignored, host shows no project file", "action", name)
		return
	}

	if _, bound := c.store.TrackedFile(); bound {
		if c.detachIfSwitched(active, "Press Ctrl+S on this new project to start tracking it.") {
			return
		}
	} else {
		path, ok := c.bindForeground(active, "Nothing to restore")
		if !ok {
			return
		}
		c.notify("Now tracking this project", filepath.Base(path), notification.TypeInfo)
	}

	moved, err := move()
	if err != nil {
		c.logger.Warn("Restore failed", "action", name, "error", err)
		return
	}
	if !moved {
		c.logger.Debug("Nothing to restore", "action", name)
	}
}

func (c *Coordinator) handleFileChanged(path string) {
	tf, bound := c.store.TrackedFile()
	if !bound || !tf.Is(path) {
		return
	}
	c.publishSession(events.ProjectFileChanged, tf.Path, tf.FileName())
	c.spawn(func() { c.store.HandleFileChanged(path) })
}

// handleSaveMissed 保存快捷键后没有观察到写入，宿主仍在前台时请用户重新选择文件
func (c *Coordinator) handleSaveMissed() {
	tf, bound := c.store.TrackedFile()
	if !bound {
		return
	}

	info, ok := c.prober.ForegroundInfo()
	name := ""
	if ok {
		name, _ = host.ExtractFileNameFromCaption(info.Title)
	}
	c.publishSession(events.SaveExpectedButNotObserved, tf.Path, name)

	if !ok {
		c.logger.Debug("Save not observed, host no longer in foreground", "path", tf.Path)
		return
	}

	c.logger.Info("Save not observed for tracked file", "path", tf.Path, "caption_file", name)
	path, ok := c.prompter.PromptForProject(name, c.resolver.State().DefaultProjectDir)
	if !ok || !fileExists(path) {
		return
	}
	if err := c.bind(path); err != nil {
		c.logger.Warn("Failed to bind selected project", "path", path, "error", err)
		return
	}
	c.notify("Now tracking project", path, notification.TypeInfo)
}

// activeProjectFileName 前台宿主窗口标题中的项目文件名
// 非项目文件（导入格式、空白工作区）返回 false，调用方应静默忽略
func (c *Coordinator) activeProjectFileName() (string, bool) {
	info, ok := c.prober.ForegroundInfo()
	if !ok {
		return "", false
	}
	name, ok := host.ExtractFileNameFromCaption(info.Title)
	if !ok || !host.IsProjectFile(name, c.exts) {
		return "", false
	}
	return name, true
}

// detachIfSwitched 宿主显示的文件名与跟踪的文件不同，视为用户切换了项目
// 解除跟踪但不为旧文件补拍快照
func (c *Coordinator) detachIfSwitched(active, hint string) bool {
	tf, bound := c.store.TrackedFile()
	if !bound || host.SameBaseName(tf.Path, active) {
		return false
	}

	c.logger.Info("Project switch detected", "tracked", tf.Path, "active", active)
	c.store.Detach()
	c.publishSession(events.ProjectUnbound, tf.Path, active)
	c.notify("I think you switched projects",
		fmt.Sprintf("I was creating snapshots for: %s\nEstlcam now shows: %s\n\nI've paused snapshots for the old file.\n%s",
			tf.BaseName(), baseName(active), hint),
		notification.TypeWarning,
	)
	return true
}

// bindForeground 先自动解析，失败时请用户选择，然后绑定
func (c *Coordinator) bindForeground(active, failTitle string) (string, bool) {
	path, ok := c.resolver.Resolve(active)
	if !ok || !fileExists(path) {
		path, ok = c.prompter.PromptForProject(active, c.resolver.State().DefaultProjectDir)
		if !ok {
			c.notify(failTitle,
				"I couldn't identify this project. Select its project file to link it, then try again.",
				notification.TypeWarning,
			)
			return "", false
		}
	}

	if err := c.bind(path); err != nil {
		c.logger.Info("Project not bound", "path", path, "error", err)
		c.notify(failTitle,
			"Only Estlcam project files can be tracked. Please pick a project file.",
			notification.TypeWarning,
		)
		return "", false
	}
	return path, true
}

// bind 校验后绑定到 path
func (c *Coordinator) bind(path string) error {
	if !host.IsProjectFile(path, c.exts) {
		return fmt.Errorf("%w: %s", snapshot.ErrNotProjectFile, path)
	}
	if !fileExists(path) {
		return fmt.Errorf("%w: %s", snapshot.ErrProjectFileMissing, path)
	}

	prev, wasBound := c.store.TrackedFile()
	if err := c.store.SetTrackedFile(path); err != nil {
		return err
	}
	if wasBound && !prev.Is(path) {
		c.publishSession(events.ProjectUnbound, prev.Path, "")
	}
	tf, _ := c.store.TrackedFile()
	c.publishSession(events.ProjectBound, tf.Path, tf.FileName())
	return nil
}

// --- 界面命令 ---

// Bind 绑定到指定项目文件
func (c *Coordinator) Bind(ctx context.Context, path string) error {
	return c.do(ctx, func() error {
		if err := c.bind(path); err != nil {
			return err
		}
		c.notify("Now tracking project", path, notification.TypeInfo)
		return nil
	})
}

// Unbind 解除跟踪，返回之前跟踪的路径
func (c *Coordinator) Unbind(ctx context.Context) (string, error) {
	var prev string
	err := c.do(ctx, func() error {
		prev = c.store.Detach()
		if prev != "" {
			c.publishSession(events.ProjectUnbound, prev, "")
		}
		return nil
	})
	return prev, err
}

// Undo 恢复上一个快照
func (c *Coordinator) Undo(ctx context.Context) (bool, error) {
	var moved bool
	err := c.do(ctx, func() error {
		var err error
		moved, err = c.store.Undo()
		return err
	})
	return moved, err
}

// Redo 恢复下一个快照
func (c *Coordinator) Redo(ctx context.Context) (bool, error) {
	var moved bool
	err := c.do(ctx, func() error {
		var err error
		moved, err = c.store.Redo()
		return err
	})
	return moved, err
}

// CreateSnapshot 立即创建快照
func (c *Coordinator) CreateSnapshot(ctx context.Context, reason string) (snapshot.Record, error) {
	if reason == "" {
		reason = "manual"
	}
	var rec snapshot.Record
	err := c.do(ctx, func() error {
		var err error
		rec, err = c.store.CreateSnapshot(reason)
		return err
	})
	return rec, err
}

// RestoreAsCopy 把快照恢复为项目目录下的新文件
func (c *Coordinator) RestoreAsCopy(ctx context.Context, snapshotPath string) (string, error) {
	var target string
	err := c.do(ctx, func() error {
		var err error
		target, err = c.store.RestoreAsCopy(snapshotPath)
		return err
	})
	return target, err
}

// ListSnapshots 当前项目的全部快照
func (c *Coordinator) ListSnapshots() []snapshot.Record {
	return c.store.ListSnapshots()
}

// OpenFolder 打开快照目录
func (c *Coordinator) OpenFolder(ctx context.Context) (string, error) {
	var dir string
	err := c.do(ctx, func() error {
		var err error
		dir, err = c.store.OpenFolder()
		return err
	})
	return dir, err
}

// Status 当前会话状态
func (c *Coordinator) Status() Status {
	st := Status{Cursor: -1}
	if tf, ok := c.store.TrackedFile(); ok {
		st.Bound = true
		st.ProjectPath = tf.Path
		st.SnapshotDir = tf.SnapshotDir
		st.Cursor, st.Count = c.store.Position()
		st.SaveExpected = c.store.SaveExpected()
	}
	st.HostForeground = c.prober.IsTargetForeground()
	if info, ok := c.prober.ForegroundInfo(); ok {
		st.ActiveFileName, _ = host.ExtractFileNameFromCaption(info.Title)
	}
	return st
}

func (c *Coordinator) publishSession(t events.EventType, projectPath, fileName string) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(&events.SessionEvent{
		EventType:   t,
		ProjectPath: projectPath,
		FileName:    fileName,
		EventTime:   c.clock.Now(),
	})
}

func (c *Coordinator) notify(title, message string, t notification.Type) {
	if c.notifier != nil {
		c.notifier.Notify(notificationSource, title, message, t)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func baseName(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
