package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ServiceName 日志中的服务标识
const ServiceName = "estlcameo"

// 全局 logger 实例
var (
	defaultLogger *slog.Logger
	debugMode     bool
	outputMu      sync.Mutex
	outputFile    *os.File
)

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}

	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	out := openOutput(cfg.filePath())

	var logHandler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		logHandler = slog.NewJSONHandler(out, opts)
	} else {
		logHandler = slog.NewTextHandler(out, opts)
	}

	defaultLogger = slog.New(logHandler.WithAttrs([]slog.Attr{
		slog.String("service", ServiceName),
	}))

	debugMode = level == slog.LevelDebug

	slog.SetDefault(defaultLogger)
}

// openOutput 打开日志文件，path 为空或打开失败时使用 stdout
// 重复 Init 会关闭上一次打开的文件
func openOutput(path string) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()

	if outputFile != nil {
		_ = outputFile.Close()
		outputFile = nil
	}
	if path == "" {
		return os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "log: create log dir failed, falling back to stdout: %v\n", err)
		return os.Stdout
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log: open log file failed, falling back to stdout: %v\n", err)
		return os.Stdout
	}
	outputFile = f
	return f
}

// GetLogger 获取默认 logger
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(nil)
	}
	return defaultLogger
}

// With 创建带有额外字段的 logger
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// NewModuleLogger 为特定模块创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// IsDebugMode 检查是否为调试模式
func IsDebugMode() bool {
	return debugMode
}

// parseLevel 未识别的级别按 info 处理
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
