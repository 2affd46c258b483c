package notification

import (
	"sync"

	"github.com/estlcameo/backend/internal/domain/notification"
)

// DefaultCapacity 内存中保留的通知数量
const DefaultCapacity = 200

// MemoryRepository 内存仓储实现，超出容量时丢弃最旧的
type MemoryRepository struct {
	mu       sync.RWMutex
	items    []*notification.Notification
	capacity int
}

// NewMemoryRepository 创建内存仓储
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{capacity: DefaultCapacity}
}

// Save 保存通知
func (r *MemoryRepository) Save(n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
	if over := len(r.items) - r.capacity; over > 0 {
		r.items = append([]*notification.Notification(nil), r.items[over:]...)
	}
	return nil
}

// FindRecent 按时间倒序返回最多 limit 条
func (r *MemoryRepository) FindRecent(limit int) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	result := make([]*notification.Notification, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.items[i])
	}
	return result, nil
}

// 编译时检查接口实现
var _ notification.Repository = (*MemoryRepository)(nil)
