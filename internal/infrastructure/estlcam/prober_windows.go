//go:build windows

package estlcam

import (
	"log/slog"

	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/infrastructure/log"
)

// Prober 基于 Win32 的前台窗口探测
type Prober struct {
	matcher ProcessMatcher
	logger  *slog.Logger
}

// NewProber 创建探测器
func NewProber(matcher ProcessMatcher) *Prober {
	return &Prober{
		matcher: matcher,
		logger:  log.NewModuleLogger("estlcam", "prober"),
	}
}

// IsTargetForeground 前台进程名是否包含宿主名
func (p *Prober) IsTargetForeground() bool {
	_, pid := foregroundWindow()
	if pid == 0 {
		return false
	}
	image, err := processImagePath(pid)
	if err != nil {
		return false
	}
	return p.matcher.IsHostProcess(image)
}

// ForegroundInfo 宿主主程序在前台时返回 pid 和窗口标题
func (p *Prober) ForegroundInfo() (host.ForegroundInfo, bool) {
	hwnd, pid := foregroundWindow()
	if hwnd == 0 || pid == 0 {
		return host.ForegroundInfo{}, false
	}
	image, err := processImagePath(pid)
	if err != nil {
		p.logger.Debug("Failed to query foreground process", "pid", pid, "error", err)
		return host.ForegroundInfo{}, false
	}
	if !p.matcher.IsHostModule(image) {
		return host.ForegroundInfo{}, false
	}
	return host.ForegroundInfo{
		PID:       pid,
		Title:     windowText(hwnd),
		ImagePath: image,
	}, true
}

var _ host.Prober = (*Prober)(nil)
