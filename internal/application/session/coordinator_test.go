package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	appsnapshot "github.com/estlcameo/backend/internal/application/snapshot"
	"github.com/estlcameo/backend/internal/domain/events"
	"github.com/estlcameo/backend/internal/domain/host"
	"github.com/estlcameo/backend/internal/domain/hotkey"
	"github.com/estlcameo/backend/internal/domain/notification"
	"github.com/estlcameo/backend/internal/domain/snapshot"
	"github.com/estlcameo/backend/internal/infrastructure/clock"
	"github.com/estlcameo/backend/internal/infrastructure/config"
	"github.com/estlcameo/backend/internal/infrastructure/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mu         sync.Mutex
	foreground bool
	title      string
}

func (p *fakeProber) IsTargetForeground() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.foreground
}

func (p *fakeProber) ForegroundInfo() (host.ForegroundInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.foreground {
		return host.ForegroundInfo{}, false
	}
	return host.ForegroundInfo{PID: 4242, Title: p.title, ImagePath: `C:\Estlcam\Estlcam.exe`}, true
}

// show 宿主在前台并显示 name
func (p *fakeProber) show(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foreground = true
	p.title = fmt.Sprintf(`Estlcam V12.112 - "%s"`, name)
}

func (p *fakeProber) hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.foreground = false
}

// MockResolver 项目路径解析 mock
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(fileName string) (string, bool) {
	args := m.Called(fileName)
	return args.String(0), args.Bool(1)
}

func (m *MockResolver) State() host.ProjectState {
	args := m.Called()
	return args.Get(0).(host.ProjectState)
}

// MockPrompter 手动选择 mock
type MockPrompter struct {
	mock.Mock
}

func (m *MockPrompter) PromptForProject(fileName, defaultDir string) (string, bool) {
	args := m.Called(fileName, defaultDir)
	return args.String(0), args.Bool(1)
}

type fakeNotifier struct {
	mu     sync.Mutex
	titles []string
}

func (n *fakeNotifier) Notify(source, title, message string, t notification.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.titles = append(n.titles, title)
}

func (n *fakeNotifier) sent() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.titles...)
}

type fixture struct {
	c        *Coordinator
	store    *appsnapshot.Store
	clock    *clock.Fake
	prober   *fakeProber
	resolver *MockResolver
	prompter *MockPrompter
	notifier *fakeNotifier
	dir      string
	part1    string
	part2    string
}

func newFixture(t *testing.T, bus events.EventBus) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		clock:    clock.NewFake(time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)),
		prober:   &fakeProber{},
		resolver: &MockResolver{},
		prompter: &MockPrompter{},
		notifier: &fakeNotifier{},
		dir:      dir,
		part1:    filepath.Join(dir, "part1.e12"),
		part2:    filepath.Join(dir, "part2.e12"),
	}
	for _, p := range []string{f.part1, f.part2} {
		require.NoError(t, os.WriteFile(p, []byte("v1"), 0644))
	}
	f.resolver.On("State").Return(host.ProjectState{DefaultProjectDir: dir}).Maybe()

	snapCfg := &config.SnapshotConfig{
		CopyMaxAttempts:        3,
		DuplicateWindow:        time.Second,
		SaveExpectationTimeout: 3 * time.Second,
	}
	hostCfg := &config.HostConfig{ProjectExtensions: []string{".e12", ".e10"}}

	f.store = appsnapshot.NewStore(snapCfg, f.clock, nil, nil, nil, f.notifier, bus)
	f.c = NewCoordinator(f.store, f.prober, f.resolver, f.prompter, f.notifier, bus, f.clock, hostCfg)
	return f
}

func (f *fixture) trackedPath() string {
	tf, ok := f.store.TrackedFile()
	if !ok {
		return ""
	}
	return tf.Path
}

func (f *fixture) count() int {
	_, n := f.store.Position()
	return n
}

func TestCoordinator_SaveQuietlyIgnoresNonProjectFile(t *testing.T) {
	for _, title := range []string{"logo.dxf", "drawing.svg"} {
		t.Run(title, func(t *testing.T) {
			f := newFixture(t, nil)
			f.prober.show(title)

			f.c.handleSave()
			f.c.handleReview()
			f.c.handleUndo()

			assert.Empty(t, f.trackedPath())
			assert.Empty(t, f.notifier.sent())
			f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)
			f.prompter.AssertNotCalled(t, "PromptForProject", mock.Anything, mock.Anything)
		})
	}
}

func TestCoordinator_SaveQuietlyIgnoresBlankWorkspace(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.mu.Lock()
	f.prober.foreground = true
	f.prober.title = "Estlcam V12.112"
	f.prober.mu.Unlock()

	f.c.handleSave()

	assert.Empty(t, f.trackedPath())
	assert.Empty(t, f.notifier.sent())
}

func TestCoordinator_SaveFirstAttachViaResolver(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return(f.part1, true).Once()

	f.c.handleSave()

	assert.Equal(t, f.part1, f.trackedPath())
	assert.Equal(t, 1, f.count())
	assert.Contains(t, f.notifier.sent(), "Now tracking this project")
	f.prompter.AssertNotCalled(t, "PromptForProject", mock.Anything, mock.Anything)
	f.resolver.AssertExpectations(t)
}

func TestCoordinator_SaveFirstAttachFallsBackToPrompt(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return("", false)
	f.prompter.On("PromptForProject", "part1.e12", f.dir).Return(f.part1, true).Once()

	f.c.handleSave()

	assert.Equal(t, f.part1, f.trackedPath())
	assert.Equal(t, 1, f.count())
	f.prompter.AssertExpectations(t)
}

func TestCoordinator_SaveFirstAttachResolverHitMissingOnDisk(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return(filepath.Join(f.dir, "gone", "part1.e12"), true)
	f.prompter.On("PromptForProject", "part1.e12", f.dir).Return(f.part1, true).Once()

	f.c.handleSave()

	assert.Equal(t, f.part1, f.trackedPath())
}

func TestCoordinator_SaveFirstAttachCancelled(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return("", false)
	f.prompter.On("PromptForProject", "part1.e12", f.dir).Return("", false)

	f.c.handleSave()

	assert.Empty(t, f.trackedPath())
	assert.Equal(t, []string{"Snapshot not created"}, f.notifier.sent())
}

func TestCoordinator_PromptedFileMustBeProjectFile(t *testing.T) {
	f := newFixture(t, nil)
	notes := filepath.Join(f.dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("x"), 0644))

	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return("", false)
	f.prompter.On("PromptForProject", "part1.e12", f.dir).Return(notes, true)

	f.c.handleReview()

	assert.Empty(t, f.trackedPath())
	assert.Equal(t, []string{"No project selected"}, f.notifier.sent())
}

func TestCoordinator_ProjectSwitchDetaches(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))

	f.prober.show("part2.e12")
	f.c.handleSave()

	assert.Empty(t, f.trackedPath())
	assert.Contains(t, f.notifier.sent(), "I think you switched projects")
	f.resolver.AssertNotCalled(t, "Resolve", mock.Anything)

	entries, err := os.ReadDir(filepath.Join(f.dir, ".snapshots", "part1"))
	require.NoError(t, err)
	assert.Empty(t, entries, "no snapshot for the old project")

	// 重新触发才会绑定新项目
	f.resolver.On("Resolve", "part2.e12").Return(f.part2, true)
	f.c.handleSave()
	assert.Equal(t, f.part2, f.trackedPath())
}

func TestCoordinator_ReviewRevalidatesBinding(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))

	f.prober.show("PART2.E12")
	f.c.handleReview()

	assert.Empty(t, f.trackedPath())
}

func TestCoordinator_SaveWhileBoundArmsExpectation(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))

	f.prober.show("Part1.e12")
	f.c.handleSave()

	assert.True(t, f.store.SaveExpected())
	assert.Equal(t, 0, f.count())
}

func TestCoordinator_UndoIgnoredWhenHostInBackground(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))
	_, err := f.store.CreateSnapshot("a")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Second)
	require.NoError(t, os.WriteFile(f.part1, []byte("v2"), 0644))
	_, err = f.store.CreateSnapshot("b")
	require.NoError(t, err)

	f.prober.hide()
	f.c.handleUndo()

	cursor, _ := f.store.Position()
	assert.Equal(t, 1, cursor)
	data, err := os.ReadFile(f.part1)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestCoordinator_UndoRedo(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))
	_, err := f.store.CreateSnapshot("a")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Second)
	require.NoError(t, os.WriteFile(f.part1, []byte("v2"), 0644))
	_, err = f.store.CreateSnapshot("b")
	require.NoError(t, err)

	f.prober.show("part1.e12")
	f.c.handleUndo()
	data, err := os.ReadFile(f.part1)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	f.c.handleRedo()
	data, err = os.ReadFile(f.part1)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestCoordinator_UndoWhileUnboundBinds(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return(f.part1, true)

	f.c.handleUndo()

	assert.Equal(t, f.part1, f.trackedPath())
	assert.Equal(t, 0, f.count())
}

func TestCoordinator_SaveMissedPromptsWhenHostInFront(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))
	f.prober.show("part2.e12")
	f.prompter.On("PromptForProject", "part2.e12", f.dir).Return(f.part2, true).Once()

	f.c.handleSaveMissed()

	assert.Equal(t, f.part2, f.trackedPath())
	assert.Contains(t, f.notifier.sent(), "Now tracking project")
	f.prompter.AssertExpectations(t)
}

func TestCoordinator_SaveMissedQuietWhenHostInBackground(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))
	f.prober.hide()

	f.c.handleSaveMissed()

	assert.Equal(t, f.part1, f.trackedPath())
	f.prompter.AssertNotCalled(t, "PromptForProject", mock.Anything, mock.Anything)
}

func TestCoordinator_FileChangeCreatesSnapshotInBackground(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.c.bind(f.part1))

	f.c.handleFileChanged(f.part2)
	f.c.handleFileChanged(f.part1)
	f.c.workers.Wait()

	assert.Equal(t, 1, f.count())
}

func TestCoordinator_ReviewPublishesRequest(t *testing.T) {
	bus := watcher.NewEventBus()
	defer bus.Close()

	var mu sync.Mutex
	var got []*events.SessionEvent
	bus.Subscribe(events.ReviewRequested, events.HandlerFunc(func(e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.(*events.SessionEvent))
		return nil
	}))

	f := newFixture(t, bus)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return(f.part1, true)

	f.c.handleReview()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, f.part1, got[0].ProjectPath)
	assert.Equal(t, "part1.e12", got[0].FileName)
}

func TestCoordinator_BindValidates(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.c.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	dxf := filepath.Join(f.dir, "logo.dxf")
	require.NoError(t, os.WriteFile(dxf, []byte("x"), 0644))

	assert.ErrorIs(t, f.c.Bind(ctx, dxf), snapshot.ErrNotProjectFile)
	assert.ErrorIs(t, f.c.Bind(ctx, filepath.Join(f.dir, "missing.e12")), snapshot.ErrProjectFileMissing)
	require.NoError(t, f.c.Bind(ctx, f.part1))

	st := f.c.Status()
	assert.True(t, st.Bound)
	assert.Equal(t, f.part1, st.ProjectPath)
	assert.Equal(t, -1, st.Cursor)

	rec, err := f.c.CreateSnapshot(ctx, "")
	require.NoError(t, err)
	assert.FileExists(t, rec.SnapshotPath)
	assert.Len(t, f.c.ListSnapshots(), 1)

	prev, err := f.c.Unbind(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.part1, prev)
	assert.False(t, f.c.Status().Bound)
}

func TestCoordinator_RunProcessesIntents(t *testing.T) {
	f := newFixture(t, nil)
	f.prober.show("part1.e12")
	f.resolver.On("Resolve", "part1.e12").Return(f.part1, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.c.Run(ctx)
		close(done)
	}()

	f.c.HandleIntent(hotkey.IntentSave)

	assert.Eventually(t, func() bool { return f.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, f.part1, f.trackedPath())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("coordinator did not stop")
	}
}

func TestCoordinator_CommandHonoursContext(t *testing.T) {
	f := newFixture(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.c.Bind(ctx, f.part1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventPrompter(t *testing.T) {
	bus := watcher.NewEventBus()
	defer bus.Close()

	received := make(chan *events.SessionEvent, 1)
	bus.Subscribe(events.ResolutionRequired, events.HandlerFunc(func(e events.Event) error {
		received <- e.(*events.SessionEvent)
		return nil
	}))

	clk := clock.NewFake(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local))
	clk.Advance(90 * time.Second)
	path, ok := NewEventPrompter(bus, clk).PromptForProject("part1.e12", `C:\Projects`)
	assert.False(t, ok)
	assert.Empty(t, path)

	select {
	case e := <-received:
		assert.Equal(t, "part1.e12", e.FileName)
		assert.Equal(t, `C:\Projects`, e.Detail)
		assert.True(t, clk.Now().Equal(e.EventTime))
	case <-time.After(time.Second):
		t.Fatal("resolution event not published")
	}
}
