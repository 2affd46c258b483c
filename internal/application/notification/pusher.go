package notification

import "github.com/estlcameo/backend/internal/domain/notification"

// Pusher 推送接口（定义在 application 层）
// 这是应用层需要的技术能力，不是领域概念
type Pusher interface {
	PushNotification(notification *notification.Notification) error
}
