package handler

import (
	"context"
	"net/http"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// SessionService 会话相关操作
type SessionService interface {
	Status() session.Status
	Bind(ctx context.Context, path string) error
	Unbind(ctx context.Context) (string, error)
}

// BindRequest 绑定请求
type BindRequest struct {
	Path string `json:"path" binding:"required"`
}

// SessionHandler 会话处理器
type SessionHandler struct {
	service SessionService
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(service SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Status 获取会话状态
// @Summary 获取会话状态
// @Tags 会话
// @Produce json
// @Success 200 {object} response.Response{data=session.Status}
// @Router /session/status [get]
func (h *SessionHandler) Status(c *gin.Context) {
	response.Success(c, h.service.Status())
}

// Bind 手动绑定项目文件
// @Summary 绑定项目文件
// @Tags 会话
// @Accept json
// @Produce json
// @Param body body BindRequest true "项目文件路径"
// @Success 200 {object} response.Response{data=session.Status}
// @Failure 400 {object} response.ErrorResponse
// @Router /session/bind [post]
func (h *SessionHandler) Bind(c *gin.Context) {
	var req BindRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}

	c.Request = c.Request.WithContext(log.WithProjectPath(c.Request.Context(), req.Path))
	if err := h.service.Bind(c.Request.Context(), req.Path); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, h.service.Status())
}

// Unbind 解除跟踪
// @Summary 解除跟踪
// @Tags 会话
// @Produce json
// @Success 200 {object} response.Response
// @Router /session/unbind [post]
func (h *SessionHandler) Unbind(c *gin.Context) {
	prev, err := h.service.Unbind(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"previous": prev})
}
