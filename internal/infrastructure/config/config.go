package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/estlcameo/backend/internal/infrastructure/log"
)

const (
	// EnvHTTPPort HTTP 端口环境变量名
	EnvHTTPPort = "ESTLCAMEO_HTTP_PORT"
	// EnvStateRoot Estlcam 状态文件根目录环境变量名
	EnvStateRoot = "ESTLCAMEO_STATE_ROOT"
	// ConfigFileName 数据目录下的可选配置文件
	ConfigFileName = "config.yaml"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Host      HostConfig      `yaml:"host"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// HTTPPort 固定端口，用于单例锁；MCP 也挂在该端口的 /mcp/sse 下
	HTTPPort string `yaml:"http_port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WebSocketConfig WebSocket 配置
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size"`
	WriteBufferSize int `yaml:"write_buffer_size"`
}

// SnapshotConfig 快照与保存检测配置
type SnapshotConfig struct {
	// CopyInitialDelay 第一次复制前的等待，给宿主写完文件的时间
	CopyInitialDelay time.Duration `yaml:"copy_initial_delay"`
	// CopyRetryDelay 复制失败后的重试间隔
	CopyRetryDelay time.Duration `yaml:"copy_retry_delay"`
	// CopyMaxAttempts 复制最大尝试次数
	CopyMaxAttempts int `yaml:"copy_max_attempts"`
	// DuplicateWindow 距上次快照小于该时长的文件变化不再生成快照
	DuplicateWindow time.Duration `yaml:"duplicate_window"`
	// SaveExpectationTimeout 保存快捷键后等待文件变化的时长
	SaveExpectationTimeout time.Duration `yaml:"save_expectation_timeout"`
	// WatchDebounce 文件变化事件的防抖时间
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	// CapturePreview 是否为快照截取窗口预览
	CapturePreview bool `yaml:"capture_preview"`
}

// HostConfig Estlcam 宿主程序相关配置
type HostConfig struct {
	// ProcessMatch 前台进程名需包含的子串（不区分大小写）
	ProcessMatch string `yaml:"process_match"`
	// ModuleNames 主模块名需包含其一，用于排除同名的辅助进程
	ModuleNames []string `yaml:"module_names"`
	// ProjectExtensions 识别的项目文件扩展名
	ProjectExtensions []string `yaml:"project_extensions"`
	// StateRoot 状态文件搜索根目录，为空时使用 %ProgramData%\Estlcam
	StateRoot string `yaml:"state_root"`
	// StateFileName 状态文件名
	StateFileName string `yaml:"state_file_name"`
	// StateCacheTTL 状态文件解析结果缓存时长
	StateCacheTTL time.Duration `yaml:"state_cache_ttl"`
}

// NewConfig 创建配置：默认值，叠加数据目录下的 config.yaml，再叠加环境变量
func NewConfig() *Config {
	cfg := Default()

	path := ConfigFilePath()
	if err := cfg.MergeFile(path); err != nil {
		log.NewModuleLogger("config", "loader").Warn("Ignoring config file",
			"path", path,
			"error", err,
		)
	}

	cfg.applyEnv()
	return cfg
}

// Default 返回不读取任何外部来源的默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":19970",
		},
		Database: DatabaseConfig{
			Path: "",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Snapshot: SnapshotConfig{
			CopyInitialDelay:       200 * time.Millisecond,
			CopyRetryDelay:         200 * time.Millisecond,
			CopyMaxAttempts:        10,
			DuplicateWindow:        time.Second,
			SaveExpectationTimeout: 3 * time.Second,
			WatchDebounce:          250 * time.Millisecond,
			CapturePreview:         true,
		},
		Host: HostConfig{
			ProcessMatch:      "estlcam",
			ModuleNames:       []string{"estlcam1", "estlcam.exe"},
			ProjectExtensions: []string{".e12", ".e10"},
			StateRoot:         "",
			StateFileName:     "State CAM.txt",
			StateCacheTTL:     5 * time.Second,
		},
	}
}

// MergeFile 用 YAML 文件覆盖当前配置，文件不存在时不做任何事
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// 先解到副本，解析失败时保持原配置不变
	merged := *c
	if err := yaml.Unmarshal(data, &merged); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	*c = merged
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvHTTPPort); v != "" {
		c.Server.HTTPPort = v
	}
	if v := os.Getenv(EnvStateRoot); v != "" {
		c.Host.StateRoot = v
	}
}

// ResolveStateRoot 返回状态文件搜索根目录
func (h *HostConfig) ResolveStateRoot() string {
	if h.StateRoot != "" {
		return h.StateRoot
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "Estlcam")
}

// NewDatabaseConfig 创建数据库配置
func NewDatabaseConfig(cfg *Config) *DatabaseConfig {
	return &cfg.Database
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewSnapshotConfig 创建快照配置
func NewSnapshotConfig(cfg *Config) *SnapshotConfig {
	return &cfg.Snapshot
}

// NewHostConfig 创建宿主配置
func NewHostConfig(cfg *Config) *HostConfig {
	return &cfg.Host
}

// NewWebSocketConfig 创建 WebSocket 配置
func NewWebSocketConfig(cfg *Config) *WebSocketConfig {
	return &cfg.WebSocket
}
