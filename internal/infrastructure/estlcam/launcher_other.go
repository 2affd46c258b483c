//go:build !windows

package estlcam

import (
	"os/exec"
	"runtime"
)

// hostExecutable 宿主只运行在 Windows 上
func (l *Launcher) hostExecutable() string {
	return ""
}

func shellOpenCommand(path string) *exec.Cmd {
	return exec.Command(opener(), path)
}

func openFolderCommand(dir string) *exec.Cmd {
	return exec.Command(opener(), dir)
}

func opener() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}
