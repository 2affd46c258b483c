package estlcam

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// cmdStarter 启动外部进程，不等待其退出
type cmdStarter func(cmd *exec.Cmd) error

// Launcher 让宿主重新打开文件，以及在文件管理器中打开目录
type Launcher struct {
	matcher ProcessMatcher
	start   cmdStarter
	logger  *slog.Logger
}

// NewLauncher 创建启动器
func NewLauncher(matcher ProcessMatcher) *Launcher {
	l := &Launcher{
		matcher: matcher,
		logger:  log.NewModuleLogger("estlcam", "launcher"),
	}
	l.start = l.startDetached
	return l
}

// ReopenFile 用正在运行的宿主可执行文件打开 path（新实例）
// 找不到宿主进程时交给系统文件关联
func (l *Launcher) ReopenFile(path string) error {
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return fmt.Errorf("cannot reopen %s: file does not exist", path)
	}

	if exe := l.hostExecutable(); exe != "" {
		cmd := exec.Command(exe, path)
		cmd.Dir = filepath.Dir(exe)
		l.logger.Info("Reopening file in host", "exe", exe, "path", path)
		err := l.start(cmd)
		if err == nil {
			return nil
		}
		l.logger.Warn("Failed to start host executable, falling back to shell", "exe", exe, "error", err)
	}

	l.logger.Info("Reopening file via shell association", "path", path)
	if err := l.start(shellOpenCommand(path)); err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return nil
}

// OpenFolder 确保目录存在后在文件管理器中打开
func (l *Launcher) OpenFolder(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	if err := l.start(openFolderCommand(dir)); err != nil {
		return fmt.Errorf("failed to open folder %s: %w", dir, err)
	}
	return nil
}

// startDetached 启动进程并在后台回收
func (l *Launcher) startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		// explorer 等程序即使成功也可能返回非零退出码
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("Launched process exited", "cmd", cmd.Path, "error", err)
		}
	}()
	return nil
}
