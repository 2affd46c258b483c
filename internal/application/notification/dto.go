package notification

// NotificationDTO 通知响应
type NotificationDTO struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Source    string `json:"source,omitempty"`
	CreatedAt string `json:"createdAt"`
}
