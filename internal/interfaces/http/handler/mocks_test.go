package handler

import (
	"context"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockCoordinator 同时实现 SessionService 和 SnapshotService
type MockCoordinator struct {
	mock.Mock
}

func (m *MockCoordinator) Status() session.Status {
	args := m.Called()
	return args.Get(0).(session.Status)
}

func (m *MockCoordinator) Bind(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockCoordinator) Unbind(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockCoordinator) ListSnapshots() []snapshot.Record {
	args := m.Called()
	return args.Get(0).([]snapshot.Record)
}

func (m *MockCoordinator) CreateSnapshot(ctx context.Context, reason string) (snapshot.Record, error) {
	args := m.Called(ctx, reason)
	return args.Get(0).(snapshot.Record), args.Error(1)
}

func (m *MockCoordinator) Undo(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinator) Redo(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockCoordinator) RestoreAsCopy(ctx context.Context, snapshotPath string) (string, error) {
	args := m.Called(ctx, snapshotPath)
	return args.String(0), args.Error(1)
}

func (m *MockCoordinator) OpenFolder(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockJournal 日志簿 mock
type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) List(projectPath string, limit int) ([]*snapshot.JournalEntry, error) {
	args := m.Called(projectPath, limit)
	entries, _ := args.Get(0).([]*snapshot.JournalEntry)
	return entries, args.Error(1)
}
