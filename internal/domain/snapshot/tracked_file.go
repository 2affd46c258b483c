// Package snapshot 定义项目文件快照的领域模型：跟踪文件、快照记录、时间线和命名规则
package snapshot

import (
	"path/filepath"
	"strings"
)

// SnapshotsDirName 快照根目录名，位于项目文件所在目录下
const SnapshotsDirName = ".snapshots"

// TrackedFile 当前被跟踪的项目文件
// 创建后不可变，切换项目时整体替换
type TrackedFile struct {
	// Path 项目文件绝对路径
	Path string
	// Ext 扩展名（含点）
	Ext string
	// SnapshotDir <项目目录>/.snapshots/<项目名>
	SnapshotDir string
}

// NewTrackedFile 根据项目文件路径创建 TrackedFile
func NewTrackedFile(path string) TrackedFile {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if base == "" {
		base = "default"
	}

	return TrackedFile{
		Path:        path,
		Ext:         ext,
		SnapshotDir: filepath.Join(filepath.Dir(path), SnapshotsDirName, base),
	}
}

// Dir 项目文件所在目录
func (f TrackedFile) Dir() string {
	return filepath.Dir(f.Path)
}

// BaseName 不含扩展名的文件名
func (f TrackedFile) BaseName() string {
	return strings.TrimSuffix(filepath.Base(f.Path), f.Ext)
}

// FileName 含扩展名的文件名
func (f TrackedFile) FileName() string {
	return filepath.Base(f.Path)
}

// Is 不区分大小写判断是否为同一路径
func (f TrackedFile) Is(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return strings.EqualFold(filepath.Clean(f.Path), filepath.Clean(path))
}
