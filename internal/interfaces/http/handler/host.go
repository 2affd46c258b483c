package handler

import (
	"net/http"

	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/infrastructure/estlcam"
	"github.com/estlcameo/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// HostInspector 宿主状态与路径解析
type HostInspector interface {
	State() host.ProjectState
	Explain(fileName string) estlcam.Resolution
}

// HostHandler 宿主处理器
type HostHandler struct {
	inspector HostInspector
}

// NewHostHandler 创建宿主处理器
func NewHostHandler(inspector HostInspector) *HostHandler {
	return &HostHandler{inspector: inspector}
}

// State 宿主状态文件中的默认目录和最近文件
// @Summary 宿主状态
// @Tags 宿主
// @Produce json
// @Success 200 {object} response.Response{data=host.ProjectState}
// @Router /host/state [get]
func (h *HostHandler) State(c *gin.Context) {
	response.Success(c, h.inspector.State())
}

// Resolve 按文件名解析项目路径并返回每一步的结果
// @Summary 解析项目路径
// @Tags 宿主
// @Produce json
// @Param file query string true "窗口标题中的文件名"
// @Success 200 {object} response.Response{data=estlcam.Resolution}
// @Failure 400 {object} response.ErrorResponse
// @Router /host/resolve [get]
func (h *HostHandler) Resolve(c *gin.Context) {
	name := c.Query("file")
	if name == "" {
		response.Error(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}
	response.Success(c, h.inspector.Explain(name))
}
