package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	// EnvDataDir 数据目录环境变量名，支持以 ~ 开头
	EnvDataDir = "ESTLCAMEO_DATA_DIR"
	// DefaultDataDirName 用户主目录下的默认数据目录名
	DefaultDataDirName = ".estlcameo"
	// DatabaseFileName 快照日志簿数据库文件名
	DatabaseFileName = "estlcameo.db"
)

var (
	dataDirOnce sync.Once
	dataDirPath string
)

// GetDataDir EstlCameo 自有数据的根目录，首次调用后缓存
// 快照本身放在项目文件旁的 .snapshots 下，不在这里
func GetDataDir() string {
	dataDirOnce.Do(func() {
		dataDirPath = resolveDataDir(os.Getenv(EnvDataDir))
	})
	return dataDirPath
}

// ConfigFilePath 可选的 config.yaml
func ConfigFilePath() string {
	return filepath.Join(GetDataDir(), ConfigFileName)
}

// DatabasePath 未配置 database.path 时使用的数据库位置
func DatabasePath() string {
	return filepath.Join(GetDataDir(), DatabaseFileName)
}

// ResetDataDir 清除缓存，下次调用重新读取环境变量（测试用）
func ResetDataDir() {
	dataDirOnce = sync.Once{}
	dataDirPath = ""
}

func resolveDataDir(env string) string {
	home, homeErr := os.UserHomeDir()

	if dir := strings.TrimSpace(env); dir != "" {
		if homeErr == nil && (dir == "~" || strings.HasPrefix(dir, "~/") || strings.HasPrefix(dir, `~\`)) {
			dir = filepath.Join(home, dir[1:])
		}
		return filepath.Clean(dir)
	}

	if homeErr != nil {
		// 没有主目录时落在工作目录下
		return DefaultDataDirName
	}
	return filepath.Join(home, DefaultDataDirName)
}
