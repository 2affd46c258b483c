//go:build windows

package estlcam

import (
	"os/exec"
	"strings"
)

// hostExecutable 正在运行的宿主 CAM 模块（estlcam1）的可执行文件路径
func (l *Launcher) hostExecutable() string {
	exe, err := findProcessImage(func(exeName string) bool {
		return strings.Contains(strings.ToLower(exeName), "estlcam1")
	})
	if err != nil {
		l.logger.Debug("Failed to enumerate processes", "error", err)
		return ""
	}
	return exe
}

func shellOpenCommand(path string) *exec.Cmd {
	return exec.Command("cmd", "/c", "start", "", path)
}

func openFolderCommand(dir string) *exec.Cmd {
	return exec.Command("explorer", dir)
}
