package watcher

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcherStopped 监听器已停止
var ErrWatcherStopped = errors.New("file watcher stopped")

// WatchConfig FileWatcher 配置
type WatchConfig struct {
	// DebounceDelay 防抖延迟，一次保存往往产生多个写事件
	DebounceDelay time.Duration
}

// DefaultWatchConfig 返回默认配置
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{
		DebounceDelay: 250 * time.Millisecond,
	}
}

// FileWatcher 单文件监听器
// 监听被跟踪项目文件所在的目录，只把该文件的变化回调出去。
// 监听目录而不是文件本身，是因为宿主可能以"写临时文件再改名"的方式保存。
type FileWatcher struct {
	config  WatchConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// 当前目标
	mu       sync.Mutex
	target   string
	dir      string
	onChange func(path string)

	// 防抖相关
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// 控制
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewFileWatcher 创建文件监听器
func NewFileWatcher(config WatchConfig) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = DefaultWatchConfig().DebounceDelay
	}

	return &FileWatcher{
		config:         config,
		watcher:        watcher,
		logger:         log.NewModuleLogger("watcher", "file_watcher"),
		debounceTimers: make(map[string]*time.Timer),
		stopCh:         make(chan struct{}),
	}, nil
}

// Start 启动事件处理循环
func (fw *FileWatcher) Start() error {
	select {
	case <-fw.stopCh:
		return ErrWatcherStopped
	default:
	}

	fw.logger.Info("Starting file watcher", "debounce", fw.config.DebounceDelay)

	fw.wg.Add(1)
	go fw.watchLoop()
	return nil
}

// Watch 切换监听目标，之前的目标被替换
func (fw *FileWatcher) Watch(path string, onChange func(path string)) error {
	select {
	case <-fw.stopCh:
		return ErrWatcherStopped
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}
	dir := filepath.Dir(abs)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.dir != "" && !strings.EqualFold(fw.dir, dir) {
		if err := fw.watcher.Remove(fw.dir); err != nil {
			fw.logger.Debug("Failed to remove previous watch dir", "dir", fw.dir, "error", err)
		}
		fw.dir = ""
	}
	if fw.dir == "" {
		if err := fw.watcher.Add(dir); err != nil {
			fw.target = ""
			fw.onChange = nil
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	fw.dir = dir
	fw.target = abs
	fw.onChange = onChange

	fw.logger.Info("Watching project file", "path", abs)
	return nil
}

// Unwatch 停止监听当前目标
func (fw *FileWatcher) Unwatch() {
	fw.mu.Lock()
	dir := fw.dir
	fw.dir = ""
	fw.target = ""
	fw.onChange = nil
	fw.mu.Unlock()

	if dir != "" {
		if err := fw.watcher.Remove(dir); err != nil {
			fw.logger.Debug("Failed to remove watch dir", "dir", dir, "error", err)
		}
	}
	fw.cancelDebounce()
}

// Target 返回当前监听的文件，未监听时为空
func (fw *FileWatcher) Target() string {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.target
}

// Stop 停止文件监听
func (fw *FileWatcher) Stop() {
	fw.stopOnce.Do(func() {
		fw.logger.Info("Stopping file watcher")

		close(fw.stopCh)
		fw.watcher.Close()
		fw.wg.Wait()
		fw.cancelDebounce()

		fw.logger.Info("File watcher stopped")
	})
}

func (fw *FileWatcher) cancelDebounce() {
	fw.debounceMu.Lock()
	for name, timer := range fw.debounceTimers {
		timer.Stop()
		delete(fw.debounceTimers, name)
	}
	fw.debounceMu.Unlock()
}

// watchLoop 事件监听循环
func (fw *FileWatcher) watchLoop() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.stopCh:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleFsEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("Watcher error", "error", err)
		}
	}
}

// handleFsEvent 过滤出目标文件的写入/创建事件
func (fw *FileWatcher) handleFsEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	fw.mu.Lock()
	target := fw.target
	fw.mu.Unlock()

	if !isSameFile(event.Name, target) {
		return
	}
	fw.debounce(target)
}

// isSameFile 不区分大小写比较路径（宿主运行在 Windows 上）
func isSameFile(name, target string) bool {
	if target == "" {
		return false
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}
	return strings.EqualFold(filepath.Clean(abs), filepath.Clean(target))
}

// debounce 合并短时间内的多个事件
func (fw *FileWatcher) debounce(path string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	fw.debounceTimers[path] = time.AfterFunc(fw.config.DebounceDelay, func() {
		fw.debounceMu.Lock()
		delete(fw.debounceTimers, path)
		fw.debounceMu.Unlock()

		fw.emit(path)
	})
}

// emit 目标在防抖期间被替换时丢弃事件
func (fw *FileWatcher) emit(path string) {
	fw.mu.Lock()
	target := fw.target
	onChange := fw.onChange
	fw.mu.Unlock()

	if onChange == nil || !strings.EqualFold(target, path) {
		return
	}

	fw.logger.Debug("Project file changed", "path", path)
	onChange(path)
}
