//go:build !windows

package estlcam

import (
	"github.com/estlcameo/backend/internal/domain/host"
)

// Prober 非 Windows 平台上宿主永远不在前台
type Prober struct {
	matcher ProcessMatcher
}

// NewProber 创建探测器
func NewProber(matcher ProcessMatcher) *Prober {
	return &Prober{matcher: matcher}
}

// IsTargetForeground 始终为 false
func (p *Prober) IsTargetForeground() bool {
	return false
}

// ForegroundInfo 始终不可用
func (p *Prober) ForegroundInfo() (host.ForegroundInfo, bool) {
	return host.ForegroundInfo{}, false
}

var _ host.Prober = (*Prober)(nil)
