//go:build integration
// +build integration

// 编译被测的两个可执行文件，并提供调用 estlcamectl 的辅助函数
package framework

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

var (
	// BinaryPath 守护进程二进制路径
	BinaryPath string
	// CtlPath estlcamectl 二进制路径
	CtlPath string

	binDir string
)

// binaries 需要编译的命令：输出名 -> 包路径
var binaries = []struct {
	name string
	pkg  string
	dest *string
}{
	{"estlcameo-daemon", "./cmd/server", &BinaryPath},
	{"estlcamectl", "./cmd/estlcamectl", &CtlPath},
}

// BuildDaemon 在同一个临时目录中编译守护进程和 estlcamectl（在 TestMain 中调用一次）
func BuildDaemon() error {
	_, currentFile, _, _ := runtime.Caller(0)
	rootDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "..")

	dir, err := os.MkdirTemp("", "estlcameo-test-bin-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	binDir = dir

	for _, b := range binaries {
		out := filepath.Join(dir, b.name)
		if runtime.GOOS == "windows" {
			out += ".exe"
		}

		cmd := exec.Command("go", "build", "-o", out, b.pkg)
		cmd.Dir = rootDir
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("failed to build %s: %w", b.pkg, err)
		}
		*b.dest = out
	}
	return nil
}

// Cleanup 删除编译产物（在 TestMain 结束时调用）
func Cleanup() {
	if binDir != "" {
		os.RemoveAll(binDir)
	}
}

// RequireDaemonBinary 检查守护进程二进制已编译
func RequireDaemonBinary(t *testing.T) {
	t.Helper()
	requireBinary(t, BinaryPath, "daemon")
}

// RequireCtlBinary 检查 estlcamectl 已编译
func RequireCtlBinary(t *testing.T) {
	t.Helper()
	requireBinary(t, CtlPath, "estlcamectl")
}

func requireBinary(t *testing.T, path, what string) {
	t.Helper()
	if path == "" {
		t.Fatalf("%s binary not built, call BuildDaemon() in TestMain first", what)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("%s binary not found at: %s", what, path)
	}
}

// RunCtl 以 dataDir 为数据目录运行 estlcamectl，返回标准输出
// 非零退出码时错误中带上标准错误输出
func RunCtl(dataDir string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(CtlPath, args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("ESTLCAMEO_DATA_DIR=%s", dataDir))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("estlcamectl %v: %w: %s", args, err, stderr.String())
	}
	return stdout.String(), nil
}
