// Package singleton 通过独占 HTTP 端口保证同一台机器只运行一个守护进程
package singleton

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
	// HealthPath 健康检查路径
	HealthPath = "/health"
	// ServiceName 健康检查响应中标识本服务的名字
	ServiceName = "estlcameo"
)

// ErrPortOccupied 端口被其它程序占用
var ErrPortOccupied = errors.New("port occupied by another process")

// Health 健康检查响应体
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// CheckAndLock 监听 addr 并返回 listener，调用者负责把它交给 HTTP 服务器
// 端口上已有健康的本服务实例时返回 nil, nil，调用者应直接退出
// 端口被其它程序占用时返回 ErrPortOccupied
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}
	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	if isInstanceRunning(addr) {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %s did not answer the health check", ErrPortOccupied, addr)
}

// isAddrInUse Windows 为 WSAEADDRINUSE (10048)，其它系统为 EADDRINUSE
func isAddrInUse(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == 10048 || errno == syscall.EADDRINUSE
	}

	var sysErr *os.SyscallError
	if errors.As(err, &sysErr) {
		msg := sysErr.Err.Error()
		return msg == "address already in use" ||
			msg == "Only one usage of each socket address (protocol/network address/port) is normally permitted"
	}
	return false
}

// isInstanceRunning 端口上的进程是否是健康的本服务实例
func isInstanceRunning(addr string) bool {
	url, ok := healthURL(addr)
	if !ok {
		return false
	}

	var health Health
	resp, err := resty.New().
		SetTimeout(HealthCheckTimeout).
		R().
		SetResult(&health).
		ForceContentType("application/json").
		Get(url)
	if err != nil || resp.StatusCode() != 200 {
		return false
	}
	return health.Service == ServiceName
}

// healthURL 监听地址对应的健康检查 URL，未指定主机或通配地址时访问本机
func healthURL(addr string) (string, bool) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "", false
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port) + HealthPath, true
}
