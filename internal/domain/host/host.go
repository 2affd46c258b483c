// Package host 定义宿主程序（Estlcam）相关的领域类型：前台窗口信息、状态文件内容和项目文件识别
package host

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ForegroundInfo 前台窗口信息
type ForegroundInfo struct {
	// PID 窗口所属进程
	PID uint32 `json:"pid"`
	// Title 窗口标题
	Title string `json:"title"`
	// ImagePath 进程可执行文件路径
	ImagePath string `json:"image_path,omitempty"`
}

// Prober 判断宿主是否在前台
// 实现必须快速返回，任何内部错误都视为"不在前台"
type Prober interface {
	// IsTargetForeground 宿主主程序是否为前台窗口
	IsTargetForeground() bool
	// ForegroundInfo 宿主在前台时返回窗口信息
	ForegroundInfo() (ForegroundInfo, bool)
}

// ProjectState 宿主状态文件解析结果
type ProjectState struct {
	// DefaultProjectDir 宿主默认项目目录，可能为空
	DefaultProjectDir string `json:"default_project_dir"`
	// RecentFiles 最近打开的文件，按文件中的顺序
	RecentFiles []string `json:"recent_files"`
	// SourcePath 状态文件路径，未找到时为空
	SourcePath string `json:"source_path,omitempty"`
	// LoadedAt 加载时间
	LoadedAt time.Time `json:"loaded_at"`
}

// StateNotFoundError 未找到状态文件
type StateNotFoundError struct {
	Root     string
	FileName string
}

func (e *StateNotFoundError) Error() string {
	return fmt.Sprintf("state file %q not found under %s", e.FileName, e.Root)
}

// ExtractFileNameFromCaption 取窗口标题中第一对双引号之间的文本
// 标题形如 `Estlcam 12 - "Bracket.e12"`
func ExtractFileNameFromCaption(caption string) (string, bool) {
	start := strings.IndexByte(caption, '"')
	if start < 0 {
		return "", false
	}
	rest := caption[start+1:]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	name := strings.TrimSpace(rest[:end])
	if name == "" {
		return "", false
	}
	return name, true
}

// IsProjectFile 扩展名是否在识别列表中（不区分大小写）
func IsProjectFile(name string, exts []string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// SameBaseName 不区分大小写比较去掉扩展名后的文件名
func SameBaseName(a, b string) bool {
	return strings.EqualFold(baseName(a), baseName(b))
}

func baseName(p string) string {
	// 标题中的文件名可能带 Windows 分隔符
	p = p[strings.LastIndexAny(p, `/\`)+1:]
	return strings.TrimSuffix(p, filepath.Ext(p))
}
