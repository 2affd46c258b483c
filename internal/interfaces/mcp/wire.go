package mcp

import "github.com/google/wire"

// ProviderSet MCP 接口层 ProviderSet
var ProviderSet = wire.NewSet(
	NewServer,
	// 注意：SnapshotService 接口绑定在顶层 wire.go 中处理
)
