package snapshot

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)

func testConfig() *config.SnapshotConfig {
	return &config.SnapshotConfig{
		CopyInitialDelay:       200 * time.Millisecond,
		CopyRetryDelay:         200 * time.Millisecond,
		CopyMaxAttempts:        10,
		DuplicateWindow:        time.Second,
		SaveExpectationTimeout: 3 * time.Second,
		CapturePreview:         true,
	}
}

type fakeWatcher struct {
	mu       sync.Mutex
	path     string
	onChange func(string)
	watches  int
	unwatch  int
}

func (w *fakeWatcher) Watch(path string, onChange func(path string)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = path
	w.onChange = onChange
	w.watches++
	return nil
}

func (w *fakeWatcher) Unwatch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.path = ""
	w.onChange = nil
	w.unwatch++
}

func (w *fakeWatcher) trigger() {
	w.mu.Lock()
	path, fn := w.path, w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn(path)
	}
}

type fakePreview struct {
	fail bool
}

func (p *fakePreview) CapturePNG(dest string) error {
	if p.fail {
		return os.ErrPermission
	}
	return os.WriteFile(dest, []byte("png"), 0644)
}

// MockLauncher 宿主启动器 mock
type MockLauncher struct {
	mock.Mock
}

func (m *MockLauncher) ReopenFile(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockLauncher) OpenFolder(dir string) error {
	args := m.Called(dir)
	return args.Error(0)
}

type sentNotification struct {
	Title string
	Type  notification.Type
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *fakeNotifier) Notify(source, title, message string, t notification.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Title: title, Type: t})
}

func (n *fakeNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		out = append(out, s.Title)
	}
	return out
}

type storeFixture struct {
	store    *Store
	clock    *clock.Fake
	watcher  *fakeWatcher
	launcher *MockLauncher
	notifier *fakeNotifier
	dir      string
	project  string
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()

	dir := t.TempDir()
	project := filepath.Join(dir, "Bracket.e12")
	require.NoError(t, os.WriteFile(project, []byte("v1"), 0644))

	f := &storeFixture{
		clock:    clock.NewFake(testStart),
		watcher:  &fakeWatcher{},
		launcher: &MockLauncher{},
		notifier: &fakeNotifier{},
		dir:      dir,
		project:  project,
	}
	f.launcher.On("ReopenFile", mock.Anything).Return(nil).Maybe()
	f.store = NewStore(testConfig(), f.clock, f.watcher, &fakePreview{}, f.launcher, f.notifier, nil)
	return f
}

func (f *storeFixture) write(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.project, []byte(content), 0644))
}

func (f *storeFixture) read(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.project)
	require.NoError(t, err)
	return string(data)
}

func (f *storeFixture) snapshotDir() string {
	return filepath.Join(f.dir, ".snapshots", "Bracket")
}
