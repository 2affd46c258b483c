package notification

import "errors"

var (
	// ErrInvalidTitle 无效的标题
	ErrInvalidTitle = errors.New("invalid title")
	// ErrInvalidType 无效的通知类型
	ErrInvalidType = errors.New("invalid notification type")
)

// Service 领域服务（纯业务逻辑）
type Service struct{}

// NewService 创建领域服务
func NewService() *Service {
	return &Service{}
}

// Validate 验证通知内容（领域规则）
func (s *Service) Validate(n *Notification) error {
	if n.Title == "" {
		return ErrInvalidTitle
	}
	if n.Type < TypeInfo || n.Type > TypeError {
		return ErrInvalidType
	}
	return nil
}
