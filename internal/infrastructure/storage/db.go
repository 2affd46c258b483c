package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/estlcameo/backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// GetDBPath 获取数据库路径，配置为空时位于数据目录下
func GetDBPath(cfg *config.DatabaseConfig) string {
	if cfg != nil && cfg.Path != "" {
		return cfg.Path
	}
	return config.DatabasePath()
}

// OpenDB 打开数据库连接
func OpenDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// 日志簿由订阅者 goroutine 并发写入
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}

// ProvideDB 提供数据库连接
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	return OpenDB(GetDBPath(cfg))
}
