package handler

import (
	"net/http"

	"github.com/estlcameo/backend/internal/application/notification"
	"github.com/estlcameo/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// NotificationLister 最近通知
type NotificationLister interface {
	List(limit int) ([]*notification.NotificationDTO, error)
}

// NotificationHandler 通知处理器
type NotificationHandler struct {
	service NotificationLister
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(service NotificationLister) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List 最近的通知，最新的在前
// @Summary 通知列表
// @Tags 通知
// @Produce json
// @Param limit query int false "条数" default(20)
// @Success 200 {object} response.Response{data=[]notification.NotificationDTO}
// @Failure 400 {object} response.ErrorResponse
// @Router /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	limit, ok := queryLimit(c, 20)
	if !ok {
		return
	}

	items, err := h.service.List(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, CodeOperationFailed, "查询失败")
		return
	}
	response.SuccessList(c, items)
}
