//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"fmt"
	"strconv"
	"time"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/go-resty/resty/v2"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// --- 通用响应结构 ---

// APIResponse 通用 API 响应（复用 response.Response 的 JSON 结构）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// --- 各接口 Data 结构（与 handler 返回的 gin.H 对应） ---

// PathData restore-copy 响应 data
type PathData struct {
	Path string `json:"path"`
}

// PreviousData unbind 响应 data
type PreviousData struct {
	Previous string `json:"previous"`
}

// StepData undo/redo 响应 data
type StepData struct {
	Moved bool `json:"moved"`
}

// do 成功和失败的响应体都解析到 result
func do[T any](r *resty.Request, result *APIResponse[T]) *resty.Request {
	return r.SetResult(result).SetError(result)
}

// --- 健康检查 ---

// HealthCheck 健康检查
func (c *APIClient) HealthCheck() error {
	resp, err := c.client.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode())
	}
	return nil
}

// --- 会话 ---

// Status 会话状态
func (c *APIClient) Status() (*APIResponse[session.Status], error) {
	var result APIResponse[session.Status]
	_, err := do(c.client.R(), &result).
		Get("/api/v1/session/status")
	return &result, err
}

// Bind 绑定项目文件
func (c *APIClient) Bind(path string) (*APIResponse[session.Status], error) {
	var result APIResponse[session.Status]
	_, err := do(c.client.R().SetBody(map[string]string{"path": path}), &result).
		Post("/api/v1/session/bind")
	return &result, err
}

// Unbind 解除跟踪
func (c *APIClient) Unbind() (*APIResponse[PreviousData], error) {
	var result APIResponse[PreviousData]
	_, err := do(c.client.R(), &result).
		Post("/api/v1/session/unbind")
	return &result, err
}

// --- 快照 ---

// CreateSnapshot 立即创建快照
func (c *APIClient) CreateSnapshot(reason string) (*APIResponse[snapshot.Record], error) {
	var result APIResponse[snapshot.Record]
	_, err := do(c.client.R().SetBody(map[string]string{"reason": reason}), &result).
		Post("/api/v1/snapshots")
	return &result, err
}

// ListSnapshots 快照列表
func (c *APIClient) ListSnapshots() (*APIResponse[[]snapshot.Record], error) {
	var result APIResponse[[]snapshot.Record]
	_, err := do(c.client.R(), &result).
		Get("/api/v1/snapshots")
	return &result, err
}

// RestoreCopy 恢复为副本
func (c *APIClient) RestoreCopy(snapshotPath string) (*APIResponse[PathData], error) {
	var result APIResponse[PathData]
	_, err := do(c.client.R().SetBody(map[string]string{"snapshot_path": snapshotPath}), &result).
		Post("/api/v1/snapshots/restore-copy")
	return &result, err
}

// Undo 撤销
func (c *APIClient) Undo() (*APIResponse[StepData], error) {
	var result APIResponse[StepData]
	_, err := do(c.client.R(), &result).
		Post("/api/v1/snapshots/undo")
	return &result, err
}

// Journal 快照日志簿
func (c *APIClient) Journal(project string, limit int) (*APIResponse[[]snapshot.JournalEntry], error) {
	var result APIResponse[[]snapshot.JournalEntry]
	_, err := do(c.client.R().
		SetQueryParam("project", project).
		SetQueryParam("limit", strconv.Itoa(limit)), &result).
		Get("/api/v1/snapshots/journal")
	return &result, err
}
