package notification

// Repository 通知仓储接口
type Repository interface {
	Save(notification *Notification) error
	// FindRecent 按时间倒序返回最多 limit 条
	FindRecent(limit int) ([]*Notification, error)
}
