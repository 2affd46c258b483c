package estlcam

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"golang.org/x/sync/singleflight"
)

// StateLoader 加载状态文件
type StateLoader interface {
	Load() (host.ProjectState, error)
}

// StateCache 状态文件解析结果缓存 {value, loadedAt}
// TTL 内直接返回缓存；加载失败时保留上一次的值（没有则为空）
type StateCache struct {
	loader StateLoader
	clock  clock.Clock
	ttl    time.Duration
	logger *slog.Logger

	mu       sync.Mutex
	value    host.ProjectState
	loadedAt time.Time
	loaded   bool

	group singleflight.Group
}

// NewStateCache 创建状态缓存
func NewStateCache(loader StateLoader, clk clock.Clock, ttl time.Duration) *StateCache {
	return &StateCache{
		loader: loader,
		clock:  clk,
		ttl:    ttl,
		logger: log.NewModuleLogger("estlcam", "state_cache"),
	}
}

// Get 返回当前状态，必要时刷新
func (c *StateCache) Get() host.ProjectState {
	c.mu.Lock()
	if c.loaded && c.clock.Now().Sub(c.loadedAt) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	// 多个调用者同时过期时只读一次磁盘
	v, _, _ := c.group.Do("state", func() (interface{}, error) {
		return c.refresh(), nil
	})
	return v.(host.ProjectState)
}

// Invalidate 让下一次 Get 重新读取
func (c *StateCache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}

func (c *StateCache) refresh() host.ProjectState {
	state, err := c.loader.Load()
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		var notFound *host.StateNotFoundError
		if errors.As(err, &notFound) {
			c.logger.Debug("State file not found", "root", notFound.Root)
		} else {
			c.logger.Warn("Failed to load state file, keeping previous value", "error", err)
		}
		c.loadedAt = now
		c.loaded = true
		return c.value
	}

	state.LoadedAt = now
	c.value = state
	c.loadedAt = now
	c.loaded = true

	c.logger.Debug("State file loaded",
		"path", state.SourcePath,
		"default_dir", state.DefaultProjectDir,
		"recent_files", len(state.RecentFiles),
	)
	return state
}
