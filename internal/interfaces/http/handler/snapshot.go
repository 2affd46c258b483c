package handler

import (
	"context"
	"net/http"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/estlcameo/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// SnapshotService 快照相关操作
type SnapshotService interface {
	ListSnapshots() []snapshot.Record
	CreateSnapshot(ctx context.Context, reason string) (snapshot.Record, error)
	Undo(ctx context.Context) (bool, error)
	Redo(ctx context.Context) (bool, error)
	RestoreAsCopy(ctx context.Context, snapshotPath string) (string, error)
	OpenFolder(ctx context.Context) (string, error)
}

// JournalReader 快照日志簿查询
type JournalReader interface {
	List(projectPath string, limit int) ([]*snapshot.JournalEntry, error)
}

// CreateSnapshotRequest 创建快照请求
type CreateSnapshotRequest struct {
	Reason string `json:"reason"`
}

// RestoreCopyRequest 副本恢复请求
type RestoreCopyRequest struct {
	SnapshotPath string `json:"snapshot_path" binding:"required"`
}

// StepResult 撤销/重做结果
type StepResult struct {
	// Moved 为 false 表示已在时间线端点
	Moved bool `json:"moved"`
}

// SnapshotHandler 快照处理器
type SnapshotHandler struct {
	service SnapshotService
	journal JournalReader
}

// NewSnapshotHandler 创建快照处理器
func NewSnapshotHandler(service SnapshotService, journal JournalReader) *SnapshotHandler {
	return &SnapshotHandler{service: service, journal: journal}
}

// List 列出当前项目的快照
// @Summary 列出快照
// @Tags 快照
// @Produce json
// @Success 200 {object} response.Response{data=[]snapshot.Record}
// @Router /snapshots [get]
func (h *SnapshotHandler) List(c *gin.Context) {
	response.SuccessList(c, h.service.ListSnapshots())
}

// Create 立即创建快照
// @Summary 创建快照
// @Tags 快照
// @Accept json
// @Produce json
// @Param body body CreateSnapshotRequest false "创建原因"
// @Success 200 {object} response.Response{data=snapshot.Record}
// @Failure 409 {object} response.ErrorResponse
// @Router /snapshots [post]
func (h *SnapshotHandler) Create(c *gin.Context) {
	var req CreateSnapshotRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
			return
		}
	}

	rec, err := h.service.CreateSnapshot(c.Request.Context(), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, rec)
}

// Undo 恢复上一个快照
// @Summary 撤销
// @Tags 快照
// @Produce json
// @Success 200 {object} response.Response{data=StepResult}
// @Router /snapshots/undo [post]
func (h *SnapshotHandler) Undo(c *gin.Context) {
	moved, err := h.service.Undo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, StepResult{Moved: moved})
}

// Redo 恢复下一个快照
// @Summary 重做
// @Tags 快照
// @Produce json
// @Success 200 {object} response.Response{data=StepResult}
// @Router /snapshots/redo [post]
func (h *SnapshotHandler) Redo(c *gin.Context) {
	moved, err := h.service.Redo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, StepResult{Moved: moved})
}

// RestoreCopy 把快照恢复为新文件
// @Summary 恢复为副本
// @Tags 快照
// @Accept json
// @Produce json
// @Param body body RestoreCopyRequest true "快照路径"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Router /snapshots/restore-copy [post]
func (h *SnapshotHandler) RestoreCopy(c *gin.Context) {
	var req RestoreCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return
	}

	c.Request = c.Request.WithContext(log.WithSnapshotPath(c.Request.Context(), req.SnapshotPath))
	target, err := h.service.RestoreAsCopy(c.Request.Context(), req.SnapshotPath)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"path": target})
}

// OpenFolder 在文件管理器中打开快照目录
// @Summary 打开快照目录
// @Tags 快照
// @Produce json
// @Success 200 {object} response.Response
// @Router /snapshots/open-folder [post]
func (h *SnapshotHandler) OpenFolder(c *gin.Context) {
	dir, err := h.service.OpenFolder(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"dir": dir})
}

// Journal 快照操作记录
// @Summary 快照日志簿
// @Tags 快照
// @Produce json
// @Param project query string false "项目文件路径，为空时返回全部"
// @Param limit query int false "条数" default(50)
// @Success 200 {object} response.Response{data=[]snapshot.JournalEntry}
// @Router /snapshots/journal [get]
func (h *SnapshotHandler) Journal(c *gin.Context) {
	limit, ok := queryLimit(c, 50)
	if !ok {
		return
	}

	entries, err := h.journal.List(c.Query("project"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessList(c, entries)
}
