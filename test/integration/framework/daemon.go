//go:build integration
// +build integration

// TestDaemon 管理独立 estlcameo-daemon 进程的启动与关闭
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// configYAML 测试用配置：不截图，缩短复制等待
const configYAML = `snapshot:
  capture_preview: false
  copy_initial_delay: 10ms
  copy_retry_delay: 10ms
`

// TestDaemon 测试守护进程
type TestDaemon struct {
	Name      string // 角色名称
	HTTPPort  int    // HTTP 端口
	DataDir   string // 数据目录（隔离）
	StateRoot string // Estlcam 状态文件根目录（隔离）

	cmd     *exec.Cmd
	baseURL string
}

// NewTestDaemon 创建测试守护进程，数据目录和状态目录都是新建的临时目录
func NewTestDaemon(binaryPath, name string) (*TestDaemon, error) {
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}

	dataDir, err := os.MkdirTemp("", fmt.Sprintf("estlcameo-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	stateRoot := filepath.Join(dataDir, "ProgramData", "Estlcam")
	if err := os.MkdirAll(stateRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state root: %w", err)
	}

	return NewTestDaemonWithConfig(binaryPath, name, dataDir, stateRoot, httpPort)
}

// NewTestDaemonWithConfig 使用指定配置创建守护进程（用于重启场景）
func NewTestDaemonWithConfig(binaryPath, name, dataDir, stateRoot string, httpPort int) (*TestDaemon, error) {
	d := &TestDaemon{
		Name:      name,
		HTTPPort:  httpPort,
		DataDir:   dataDir,
		StateRoot: stateRoot,
		baseURL:   fmt.Sprintf("http://localhost:%d", httpPort),
	}

	d.cmd = exec.Command(binaryPath)
	d.cmd.Env = append(os.Environ(),
		fmt.Sprintf("ESTLCAMEO_DATA_DIR=%s", dataDir),
		fmt.Sprintf("ESTLCAMEO_HTTP_PORT=:%d", httpPort),
		fmt.Sprintf("ESTLCAMEO_STATE_ROOT=%s", stateRoot),
		"GIN_MODE=test",
	)
	d.cmd.Stdout = os.Stdout
	d.cmd.Stderr = os.Stderr

	return d, nil
}

// WriteState 写入 Estlcam 状态文件
func (d *TestDaemon) WriteState(defaultDir string, recent ...string) error {
	path := filepath.Join(d.StateRoot, "Profile", "State CAM.txt")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	content := "Dir projects=" + defaultDir + "\r\nRecent files="
	for i, r := range recent {
		if i > 0 {
			content += ";"
		}
		content += r
	}
	return os.WriteFile(path, []byte(content+"\r\n"), 0644)
}

// Start 启动守护进程并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}
	return d.waitForReady(30 * time.Second)
}

// Stop 停止守护进程并清理数据目录
func (d *TestDaemon) Stop() error {
	return d.StopWithCleanup(true)
}

// StopWithCleanup 停止守护进程，可选择是否清理数据目录
func (d *TestDaemon) StopWithCleanup(cleanup bool) error {
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Signal(os.Interrupt)

		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = d.cmd.Process.Kill()
			<-done
		}
	}

	if cleanup {
		return os.RemoveAll(d.DataDir)
	}
	return nil
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// RunSecondInstance 在同一端口上再启动一个实例，返回它的退出码
func (d *TestDaemon) RunSecondInstance(binaryPath string, timeout time.Duration) (int, error) {
	cmd := exec.Command(binaryPath)
	cmd.Env = d.cmd.Env

	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return -1, err
	}
	go func() { done <- cmd.Wait() }()

	select {
	case <-done:
		return cmd.ProcessState.ExitCode(), nil
	case <-time.After(timeout):
		_ = cmd.Process.Kill()
		<-done
		return -1, fmt.Errorf("second instance did not exit within %v", timeout)
	}
}

// waitForReady 等待守护进程 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}

	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
