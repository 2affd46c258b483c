package log

import (
	"context"
	"log/slog"
)

type ctxKey string

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID ctxKey = "request_id"

	// ProjectPathContextID 当前跟踪的项目文件
	ProjectPathContextID ctxKey = "project_path"

	// SnapshotPathContextID 快照文件
	SnapshotPathContextID ctxKey = "snapshot_path"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithProjectPath 在上下文中添加项目文件路径
func WithProjectPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ProjectPathContextID, path)
}

// WithSnapshotPath 在上下文中添加快照路径
func WithSnapshotPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, SnapshotPathContextID, path)
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr
	for _, key := range []ctxKey{RequestContextID, ProjectPathContextID, SnapshotPathContextID} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}
