package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/application/session"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSnapshotService struct {
	mock.Mock
}

func (m *MockSnapshotService) Status() session.Status {
	return m.Called().Get(0).(session.Status)
}

func (m *MockSnapshotService) ListSnapshots() []snapshot.Record {
	return m.Called().Get(0).([]snapshot.Record)
}

func (m *MockSnapshotService) CreateSnapshot(ctx context.Context, reason string) (snapshot.Record, error) {
	args := m.Called(ctx, reason)
	return args.Get(0).(snapshot.Record), args.Error(1)
}

func (m *MockSnapshotService) RestoreAsCopy(ctx context.Context, snapshotPath string) (string, error) {
	args := m.Called(ctx, snapshotPath)
	return args.String(0), args.Error(1)
}

func records(n int) []snapshot.Record {
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	out := make([]snapshot.Record, n)
	for i := range out {
		ts := base.Add(time.Duration(i) * time.Minute)
		out[i] = snapshot.Record{
			Timestamp:    ts,
			SnapshotPath: "/cam/.snapshots/part/" + snapshot.FormatStamp(ts) + ".e12",
			RelativeAge:  "just now",
		}
	}
	return out
}

func TestGetTrackingStatusTool(t *testing.T) {
	svc := &MockSnapshotService{}
	svc.On("Status").Return(session.Status{Bound: true, ProjectPath: "/cam/part.e12", Cursor: 1, Count: 2, HostForeground: true})

	_, out, err := NewServer(svc).getTrackingStatusTool(context.Background(), nil, TrackingStatusInput{})
	require.NoError(t, err)
	assert.True(t, out.Tracking)
	assert.Equal(t, "/cam/part.e12", out.ProjectPath)
	assert.Equal(t, 2, out.Count)
	assert.True(t, out.HostForeground)
}

func TestListSnapshotsTool(t *testing.T) {
	svc := &MockSnapshotService{}
	svc.On("ListSnapshots").Return(records(5))
	svc.On("Status").Return(session.Status{Bound: true, ProjectPath: "/cam/part.e12"})
	s := NewServer(svc)

	_, out, err := s.listSnapshotsTool(context.Background(), nil, ListSnapshotsInput{})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Total)
	assert.Len(t, out.Snapshots, 5)

	_, out, err = s.listSnapshotsTool(context.Background(), nil, ListSnapshotsInput{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, out.Total)
	require.Len(t, out.Snapshots, 2)
	// 保留最新的两个
	assert.Equal(t, "2024-03-01T10:04:00Z", out.Snapshots[1].Timestamp)
	assert.Equal(t, "2024-03-01T10:03:00Z", out.Snapshots[0].Timestamp)

	_, _, err = s.listSnapshotsTool(context.Background(), nil, ListSnapshotsInput{Limit: -1})
	assert.Error(t, err)
}

func TestListSnapshotsTool_Unbound(t *testing.T) {
	svc := &MockSnapshotService{}
	svc.On("ListSnapshots").Return([]snapshot.Record{})
	svc.On("Status").Return(session.Status{})

	_, out, err := NewServer(svc).listSnapshotsTool(context.Background(), nil, ListSnapshotsInput{})
	require.NoError(t, err)
	assert.NotNil(t, out.Snapshots)
	assert.Empty(t, out.Snapshots)
}

func TestCreateSnapshotTool(t *testing.T) {
	svc := &MockSnapshotService{}
	rec := records(1)[0]
	svc.On("CreateSnapshot", mock.Anything, "mcp").Return(rec, nil).Once()
	svc.On("CreateSnapshot", mock.Anything, "before finishing pass").Return(snapshot.Record{}, snapshot.ErrNoTrackedFile).Once()
	s := NewServer(svc)

	_, out, err := s.createSnapshotTool(context.Background(), nil, CreateSnapshotInput{})
	require.NoError(t, err)
	assert.Equal(t, rec.SnapshotPath, out.Snapshot.SnapshotPath)

	_, _, err = s.createSnapshotTool(context.Background(), nil, CreateSnapshotInput{Reason: "before finishing pass"})
	require.Error(t, err)
	assert.ErrorIs(t, err, snapshot.ErrNoTrackedFile)
	svc.AssertExpectations(t)
}

func TestRestoreSnapshotCopyTool(t *testing.T) {
	svc := &MockSnapshotService{}
	svc.On("RestoreAsCopy", mock.Anything, "/cam/.snapshots/part/a.e12").Return("/cam/part_restored_20240301_100000.e12", nil)
	svc.On("RestoreAsCopy", mock.Anything, "/elsewhere/b.e12").Return("", snapshot.ErrForeignSnapshot)
	s := NewServer(svc)

	_, out, err := s.restoreSnapshotCopyTool(context.Background(), nil, RestoreCopyInput{SnapshotPath: "/cam/.snapshots/part/a.e12"})
	require.NoError(t, err)
	assert.Equal(t, "/cam/part_restored_20240301_100000.e12", out.Path)

	_, _, err = s.restoreSnapshotCopyTool(context.Background(), nil, RestoreCopyInput{SnapshotPath: "/elsewhere/b.e12"})
	assert.ErrorIs(t, err, snapshot.ErrForeignSnapshot)

	_, _, err = s.restoreSnapshotCopyTool(context.Background(), nil, RestoreCopyInput{})
	assert.Error(t, err)
}

func TestNewServer_Handler(t *testing.T) {
	assert.NotNil(t, NewServer(&MockSnapshotService{}).GetHandler())
}
