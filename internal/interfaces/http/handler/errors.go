package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/interfaces/http/response"
	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeInvalidParam    = 100001
	CodeNotTracking     = 200001
	CodeSnapshotMissing = 200002
	CodeInvalidProject  = 200003
	CodeProjectDirGone  = 200004
	CodeOperationFailed = 200005
	CodeUnavailable     = 200006
)

// writeError 把领域错误映射为 HTTP 响应
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, snapshot.ErrNoTrackedFile):
		response.ErrorWithDetail(c, http.StatusConflict, CodeNotTracking, "未跟踪任何项目文件", err.Error())
	case errors.Is(err, snapshot.ErrSnapshotMissing), errors.Is(err, snapshot.ErrForeignSnapshot):
		response.ErrorWithDetail(c, http.StatusNotFound, CodeSnapshotMissing, "快照不存在", err.Error())
	case errors.Is(err, snapshot.ErrNotProjectFile), errors.Is(err, snapshot.ErrProjectFileMissing):
		response.ErrorWithDetail(c, http.StatusBadRequest, CodeInvalidProject, "无效的项目文件", err.Error())
	case errors.Is(err, snapshot.ErrProjectDirMissing):
		response.ErrorWithDetail(c, http.StatusNotFound, CodeProjectDirGone, "项目目录不存在", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.ErrorWithDetail(c, http.StatusServiceUnavailable, CodeUnavailable, "服务繁忙", err.Error())
	default:
		response.ErrorWithDetail(c, http.StatusInternalServerError, CodeOperationFailed, "操作失败", err.Error())
	}
}

// queryLimit 解析 limit 查询参数，缺省时为 def；非正整数时写入 400 并返回 false
func queryLimit(c *gin.Context, def int) (int, bool) {
	v := c.Query("limit")
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		response.Error(c, http.StatusBadRequest, CodeInvalidParam, "参数错误")
		return 0, false
	}
	return n, true
}
