package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName MCP 实现名
const ServerName = "estlcameo-daemon"

// ServerVersion MCP 实现版本
const ServerVersion = "0.1.0"

// SnapshotService MCP 工具依赖的会话操作
type SnapshotService interface {
	Status() session.Status
	ListSnapshots() []snapshot.Record
	CreateSnapshot(ctx context.Context, reason string) (snapshot.Record, error)
	RestoreAsCopy(ctx context.Context, snapshotPath string) (string, error)
}

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	service SnapshotService
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(service SnapshotService) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:  server,
		service: service,
		logger:  log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_tracking_status",
		Description: "Get the project file the daemon is currently tracking, the snapshot folder, the timeline cursor and snapshot count, and whether Estlcam is in the foreground. No parameters required.",
	}, s.getTrackingStatusTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_snapshots",
		Description: "List the snapshots of the tracked project file, oldest first, with timestamp, snapshot path, preview path and a relative age such as \"5 mins ago\". Parameters: limit (int, optional) - return only the newest N snapshots.",
	}, s.listSnapshotsTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "create_snapshot",
		Description: "Create a snapshot of the tracked project file right now. Parameters: reason (string, optional) - note stored in the snapshot journal. Returns: the created snapshot.",
	}, s.createSnapshotTool)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "restore_snapshot_copy",
		Description: "Restore a snapshot as a new file next to the tracked project file without touching the original. Parameters: snapshot_path (string, required) - a path returned by list_snapshots. Returns: path of the new file.",
	}, s.restoreSnapshotCopyTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
