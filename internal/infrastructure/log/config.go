package log

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// 日志相关环境变量
const (
	EnvLevel     = "LOG_LEVEL"
	EnvFormat    = "LOG_FORMAT"
	EnvOutput    = "LOG_OUTPUT"
	EnvAddSource = "LOG_ADD_SOURCE"
	EnvMode      = "ENV"
)

// Config 日志配置
type Config struct {
	// Level debug, info, warn, error
	Level string

	// Format console 或 json
	Format string

	// Output stdout、file（默认日志文件）或 file:<path>
	Output string

	// AddSource 记录调用位置
	AddSource bool
}

// NewConfigFromEnv 从环境变量读取日志配置
// ENV=development 时强制 debug 级别、console 格式并记录调用位置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     envOr(EnvLevel, "info"),
		Format:    envOr(EnvFormat, "console"),
		Output:    envOr(EnvOutput, "stdout"),
		AddSource: envBool(EnvAddSource, false),
	}

	if strings.EqualFold(os.Getenv(EnvMode), "development") {
		cfg.Level = "debug"
		cfg.Format = "console"
		cfg.AddSource = true
	}
	return cfg
}

// filePath 解析 Output 对应的日志文件，输出到 stdout 时返回空
func (c *Config) filePath() string {
	if strings.EqualFold(c.Output, "file") {
		return DefaultLogFile()
	}
	path, ok := strings.CutPrefix(c.Output, "file:")
	if !ok {
		return ""
	}
	return path
}

// DefaultLogFile 默认日志文件：Windows 下为 %LOCALAPPDATA%\EstlCameo\EstlCameo.log，
// 其它系统位于用户缓存目录
func DefaultLogFile() string {
	base := os.Getenv("LOCALAPPDATA")
	if base == "" {
		if dir, err := os.UserCacheDir(); err == nil {
			base = dir
		} else {
			base = os.TempDir()
		}
	}
	return filepath.Join(base, "EstlCameo", "EstlCameo.log")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}
