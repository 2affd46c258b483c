// Package estlcam 对接 Estlcam 宿主程序：状态文件、项目路径解析、前台窗口探测、打开文件和窗口截图
package estlcam

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/estlcameo/backend/internal/domain/host"
)

// 状态文件中的键
const (
	keyDirProjects = "Dir projects="
	keyRecentFiles = "Recent files="
)

// StateReader 读取宿主的状态文件
type StateReader struct {
	root     string
	fileName string
}

// NewStateReader 创建状态文件读取器
func NewStateReader(root, fileName string) *StateReader {
	return &StateReader{root: root, fileName: fileName}
}

// FindStateFile 在根目录下递归查找状态文件（所有配置档案），取最近修改的一个
func (r *StateReader) FindStateFile() (string, error) {
	var (
		best     string
		bestTime time.Time
	)

	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// 根目录不可读时整体失败，子目录不可读时跳过
			if path == r.root {
				return err
			}
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(d.Name(), r.fileName) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if best == "" || info.ModTime().After(bestTime) {
			best = path
			bestTime = info.ModTime()
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return "", &host.StateNotFoundError{Root: r.root, FileName: r.fileName}
		}
		return "", fmt.Errorf("failed to search state file: %w", err)
	}
	if best == "" {
		return "", &host.StateNotFoundError{Root: r.root, FileName: r.fileName}
	}
	return best, nil
}

// Load 查找并解析状态文件
func (r *StateReader) Load() (host.ProjectState, error) {
	path, err := r.FindStateFile()
	if err != nil {
		return host.ProjectState{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return host.ProjectState{}, fmt.Errorf("failed to open state file: %w", err)
	}
	defer f.Close()

	state, err := ParseState(f)
	if err != nil {
		return host.ProjectState{}, err
	}
	state.SourcePath = path
	return state, nil
}

// ParseState 解析状态文件内容
// 只关心 "Dir projects=" 和 "Recent files=a;b;c" 两行，键不区分大小写
func ParseState(r io.Reader) (host.ProjectState, error) {
	var state host.ProjectState

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := cutPrefixFold(line, keyDirProjects); ok {
			state.DefaultProjectDir = strings.TrimSpace(value)
			continue
		}
		if value, ok := cutPrefixFold(line, keyRecentFiles); ok {
			for _, p := range strings.Split(value, ";") {
				if p = strings.TrimSpace(p); p != "" {
					state.RecentFiles = append(state.RecentFiles, p)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return host.ProjectState{}, fmt.Errorf("failed to read state file: %w", err)
	}
	return state, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
