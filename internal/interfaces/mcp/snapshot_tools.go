package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// TrackingStatusInput 跟踪状态工具输入（空输入）
type TrackingStatusInput struct{}

// TrackingStatusOutput 跟踪状态工具输出
type TrackingStatusOutput struct {
	Tracking       bool   `json:"tracking" jsonschema:"是否正在跟踪项目文件"`
	ProjectPath    string `json:"project_path,omitempty" jsonschema:"项目文件路径"`
	SnapshotDir    string `json:"snapshot_dir,omitempty" jsonschema:"快照目录"`
	Cursor         int    `json:"cursor" jsonschema:"时间线游标，-1 表示没有快照"`
	Count          int    `json:"count" jsonschema:"快照数量"`
	SaveExpected   bool   `json:"save_expected" jsonschema:"是否正在等待保存"`
	HostForeground bool   `json:"host_foreground" jsonschema:"Estlcam 是否在前台"`
}

// ListSnapshotsInput 快照列表工具输入
type ListSnapshotsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"只返回最新的 N 个快照，0 表示全部"`
}

// SnapshotItem 快照条目
type SnapshotItem struct {
	Timestamp    string `json:"timestamp" jsonschema:"快照时间，RFC3339"`
	SnapshotPath string `json:"snapshot_path" jsonschema:"快照文件路径"`
	PreviewPath  string `json:"preview_path,omitempty" jsonschema:"预览图路径"`
	RelativeAge  string `json:"relative_age" jsonschema:"相对时间"`
}

// ListSnapshotsOutput 快照列表工具输出
type ListSnapshotsOutput struct {
	ProjectPath string         `json:"project_path,omitempty" jsonschema:"项目文件路径"`
	Snapshots   []SnapshotItem `json:"snapshots" jsonschema:"快照列表，按时间升序"`
	Total       int            `json:"total" jsonschema:"快照总数"`
}

// CreateSnapshotInput 创建快照工具输入
type CreateSnapshotInput struct {
	Reason string `json:"reason,omitempty" jsonschema:"创建原因"`
}

// CreateSnapshotOutput 创建快照工具输出
type CreateSnapshotOutput struct {
	Snapshot SnapshotItem `json:"snapshot" jsonschema:"新建的快照"`
}

// RestoreCopyInput 副本恢复工具输入
type RestoreCopyInput struct {
	SnapshotPath string `json:"snapshot_path" jsonschema:"快照文件路径"`
}

// RestoreCopyOutput 副本恢复工具输出
type RestoreCopyOutput struct {
	Path string `json:"path" jsonschema:"新文件路径"`
}

func (s *MCPServer) getTrackingStatusTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input TrackingStatusInput,
) (*mcp.CallToolResult, TrackingStatusOutput, error) {
	st := s.service.Status()
	return nil, TrackingStatusOutput{
		Tracking:       st.Bound,
		ProjectPath:    st.ProjectPath,
		SnapshotDir:    st.SnapshotDir,
		Cursor:         st.Cursor,
		Count:          st.Count,
		SaveExpected:   st.SaveExpected,
		HostForeground: st.HostForeground,
	}, nil
}

func (s *MCPServer) listSnapshotsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListSnapshotsInput,
) (*mcp.CallToolResult, ListSnapshotsOutput, error) {
	if input.Limit < 0 {
		return nil, ListSnapshotsOutput{}, fmt.Errorf("limit must not be negative")
	}

	records := s.service.ListSnapshots()
	total := len(records)
	if input.Limit > 0 && input.Limit < total {
		records = records[total-input.Limit:]
	}

	items := make([]SnapshotItem, 0, len(records))
	for _, rec := range records {
		items = append(items, toItem(rec))
	}
	return nil, ListSnapshotsOutput{
		ProjectPath: s.service.Status().ProjectPath,
		Snapshots:   items,
		Total:       total,
	}, nil
}

func (s *MCPServer) createSnapshotTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateSnapshotInput,
) (*mcp.CallToolResult, CreateSnapshotOutput, error) {
	reason := input.Reason
	if reason == "" {
		reason = "mcp"
	}

	rec, err := s.service.CreateSnapshot(ctx, reason)
	if err != nil {
		return nil, CreateSnapshotOutput{}, toolError("create snapshot", err)
	}
	s.logger.Info("Snapshot created via MCP", "snapshot_path", rec.SnapshotPath)
	return nil, CreateSnapshotOutput{Snapshot: toItem(rec)}, nil
}

func (s *MCPServer) restoreSnapshotCopyTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RestoreCopyInput,
) (*mcp.CallToolResult, RestoreCopyOutput, error) {
	if input.SnapshotPath == "" {
		return nil, RestoreCopyOutput{}, fmt.Errorf("snapshot_path is required")
	}

	target, err := s.service.RestoreAsCopy(ctx, input.SnapshotPath)
	if err != nil {
		return nil, RestoreCopyOutput{}, toolError("restore snapshot copy", err)
	}
	s.logger.Info("Snapshot restored as copy via MCP",
		"snapshot_path", input.SnapshotPath,
		"target", target,
	)
	return nil, RestoreCopyOutput{Path: target}, nil
}

func toItem(rec snapshot.Record) SnapshotItem {
	return SnapshotItem{
		Timestamp:    rec.Timestamp.Format(time.RFC3339),
		SnapshotPath: rec.SnapshotPath,
		PreviewPath:  rec.PreviewPath,
		RelativeAge:  rec.RelativeAge,
	}
}

// toolError 给调用方一个可操作的提示
func toolError(op string, err error) error {
	switch {
	case errors.Is(err, snapshot.ErrNoTrackedFile):
		return fmt.Errorf("%s: no project file is tracked, save the project in Estlcam with Ctrl+S first: %w", op, err)
	case errors.Is(err, snapshot.ErrForeignSnapshot), errors.Is(err, snapshot.ErrSnapshotMissing):
		return fmt.Errorf("%s: use a snapshot_path returned by list_snapshots: %w", op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
