package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSnapshotRouter(svc SnapshotService, journal JournalReader) *gin.Engine {
	router := gin.New()
	h := NewSnapshotHandler(svc, journal)
	api := router.Group("/api/v1/snapshots")
	{
		api.GET("", h.List)
		api.POST("", h.Create)
		api.POST("/undo", h.Undo)
		api.POST("/redo", h.Redo)
		api.POST("/restore-copy", h.RestoreCopy)
		api.POST("/open-folder", h.OpenFolder)
		api.GET("/journal", h.Journal)
	}
	return router
}

func TestSnapshotHandler_List(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("ListSnapshots").Return([]snapshot.Record{
		{Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), SnapshotPath: "/cam/.snapshots/part/20240101_120000.e12", RelativeAge: "2 days ago"},
	})

	w := httptest.NewRecorder()
	setupSnapshotRouter(svc, &MockJournal{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots", nil))

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "2 days ago", data[0].(map[string]interface{})["relative_age"])
}

func TestSnapshotHandler_CreateWithoutBody(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("CreateSnapshot", mock.Anything, "").Return(snapshot.Record{SnapshotPath: "/s/a.e12"}, nil).Once()

	w := httptest.NewRecorder()
	setupSnapshotRouter(svc, &MockJournal{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestSnapshotHandler_CreateNotTracking(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("CreateSnapshot", mock.Anything, "before roughing").Return(snapshot.Record{}, snapshot.ErrNoTrackedFile)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots", bytes.NewBufferString(`{"reason":"before roughing"}`))
	req.Header.Set("Content-Type", "application/json")
	setupSnapshotRouter(svc, &MockJournal{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, float64(CodeNotTracking), decode(t, w)["code"])
}

func TestSnapshotHandler_UndoRedo(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("Undo", mock.Anything).Return(true, nil)
	svc.On("Redo", mock.Anything).Return(false, nil)
	router := setupSnapshotRouter(svc, &MockJournal{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/undo", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["data"].(map[string]interface{})["moved"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/redo", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["data"].(map[string]interface{})["moved"])
}

func TestSnapshotHandler_UndoSnapshotMissing(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("Undo", mock.Anything).Return(false, snapshot.ErrSnapshotMissing)

	w := httptest.NewRecorder()
	setupSnapshotRouter(svc, &MockJournal{}).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/undo", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(CodeSnapshotMissing), decode(t, w)["code"])
}

func TestSnapshotHandler_RestoreCopy(t *testing.T) {
	svc := &MockCoordinator{}
	svc.On("RestoreAsCopy", mock.Anything, "/cam/.snapshots/part/20240101_120000.e12").
		Return("/cam/part_restored_20240101_120000.e12", nil)
	router := setupSnapshotRouter(svc, &MockJournal{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/restore-copy",
		bytes.NewBufferString(`{"snapshot_path":"/cam/.snapshots/part/20240101_120000.e12"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/cam/part_restored_20240101_120000.e12", decode(t, w)["data"].(map[string]interface{})["path"])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/snapshots/restore-copy", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSnapshotHandler_Journal(t *testing.T) {
	journal := &MockJournal{}
	journal.On("List", "/cam/part.e12", 5).Return([]*snapshot.JournalEntry{
		{ID: "1", ProjectPath: "/cam/part.e12", Action: snapshot.ActionCreated},
	}, nil)
	journal.On("List", "", 50).Return(nil, nil)
	router := setupSnapshotRouter(&MockCoordinator{}, journal)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/journal?project=/cam/part.e12&limit=5", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/journal", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["data"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/snapshots/journal?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
