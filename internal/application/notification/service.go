package notification

import (
	"log/slog"
	"time"

	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/google/uuid"
)

// Service 应用服务（用例编排）
// 通知是尽力而为的：校验、保存或推送失败只记日志
type Service struct {
	domainRepo notification.Repository
	domainSvc  *notification.Service
	pusher     Pusher
	logger     *slog.Logger
}

// NewService 创建应用服务
func NewService(
	domainRepo notification.Repository,
	domainSvc *notification.Service,
	pusher Pusher,
) *Service {
	return &Service{
		domainRepo: domainRepo,
		domainSvc:  domainSvc,
		pusher:     pusher,
		logger:     log.NewModuleLogger("notification", "service"),
	}
}

// Notify 创建并推送通知
func (s *Service) Notify(source, title, message string, t notification.Type) {
	n := &notification.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Type:      t,
		Source:    source,
		CreatedAt: time.Now(),
	}

	if err := s.domainSvc.Validate(n); err != nil {
		s.logger.Warn("Dropping invalid notification", "title", title, "error", err)
		return
	}

	s.logger.Info("Notification",
		"source", source,
		"type", t.String(),
		"title", title,
		"message", message,
	)

	if err := s.domainRepo.Save(n); err != nil {
		s.logger.Warn("Failed to store notification", "error", err)
	}

	if s.pusher == nil {
		return
	}
	if err := s.pusher.PushNotification(n); err != nil {
		s.logger.Debug("Failed to push notification", "error", err)
	}
}

// List 最近的通知
func (s *Service) List(limit int) ([]*NotificationDTO, error) {
	items, err := s.domainRepo.FindRecent(limit)
	if err != nil {
		return nil, err
	}
	result := make([]*NotificationDTO, 0, len(items))
	for _, n := range items {
		result = append(result, toDTO(n))
	}
	return result, nil
}

// toDTO 转换为 DTO
func toDTO(n *notification.Notification) *NotificationDTO {
	return &NotificationDTO{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type.String(),
		Source:    n.Source,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
