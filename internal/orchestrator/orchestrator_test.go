package orchestrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr/events"
)

type fakeHypr struct {
	windows     []hypr.Window
	activeWs    int
	activeErr   error
	dispatches  [][]string
	dispatchErr error
}

func (f *fakeHypr) Dispatch(_ context.Context, args ...string) error {
	f.dispatches = append(f.dispatches, args)
	return f.dispatchErr
}

func (f *fakeHypr) Clients(_ context.Context) ([]hypr.Window, error) {
	return f.windows, nil
}

func (f *fakeHypr) Monitors(_ context.Context) ([]hypr.Monitor, error) {
	return nil, nil
}

func (f *fakeHypr) FocusedMonitor(_ context.Context) (*hypr.Monitor, error) {
	return &hypr.Monitor{Name: "eDP-1", Width: 1920, Height: 1080}, nil
}

func (f *fakeHypr) ActiveWorkspaceID(_ context.Context) (int, error) {
	return f.activeWs, f.activeErr
}

func (f *fakeHypr) InstanceSignature(_ context.Context) (string, error) {
	return "sig", nil
}

type pauseCall struct {
	workspaceID int
	paused      bool
}

type fakeVideo struct {
	started    []config.MapEntry
	stopCount  int
	pauseCalls []pauseCall
	paused     map[int]bool
}

func (f *fakeVideo) StartAll(_ context.Context, videoMap []config.MapEntry) error {
	f.started = append(f.started, videoMap...)
	return nil
}

func (f *fakeVideo) SetPaused(_ context.Context, workspaceID int, paused bool) {
	if f.paused == nil {
		f.paused = make(map[int]bool)
	}
	f.pauseCalls = append(f.pauseCalls, pauseCall{workspaceID, paused})
	f.paused[workspaceID] = paused
}

func (f *fakeVideo) StopAll(_ context.Context) {
	f.stopCount++
}

func (f *fakeVideo) unpausedWorkspaces() []int {
	var ids []int
	for id, paused := range f.paused {
		if !paused {
			ids = append(ids, id)
		}
	}
	return ids
}

type fakePaper struct {
	ensureCount int
	wallpapers  []string
	unloadCount int
}

func (f *fakePaper) EnsureRunning(_ context.Context) {
	f.ensureCount++
}

func (f *fakePaper) SetWallpaper(_ context.Context, imagePath string) {
	f.wallpapers = append(f.wallpapers, imagePath)
}

func (f *fakePaper) UnloadAll(_ context.Context, _ []config.MapEntry) {
	f.unloadCount++
}

type fakeTiler struct {
	retiled  []int
	placed   []string
	cascaded []string
}

func (f *fakeTiler) Retile(_ context.Context, workspaceID int) error {
	f.retiled = append(f.retiled, workspaceID)
	return nil
}

func (f *fakeTiler) PlaceNewWindow(_ context.Context, address string) error {
	f.placed = append(f.placed, address)
	return nil
}

func (f *fakeTiler) CascadeResize(_ context.Context, workspaceID int, address string) error {
	f.cascaded = append(f.cascaded, fmt.Sprintf("%d:%s", workspaceID, address))
	return nil
}

type bindCall struct {
	workspaceID int
	hasVideo    bool
}

type fakeBinds struct {
	calls []bindCall
}

func (f *fakeBinds) Apply(workspaceID int, hasVideo bool) error {
	f.calls = append(f.calls, bindCall{workspaceID, hasVideo})
	return nil
}

// fakeClock never sleeps; Now advances a little per call so held-connection
// durations are distinguishable from instant failures.
type fakeClock struct {
	now    time.Time
	step   time.Duration
	sleeps []time.Duration
}

func (f *fakeClock) Now() time.Time {
	f.now = f.now.Add(f.step)
	return f.now
}

func (f *fakeClock) Sleep(_ context.Context, d time.Duration) {
	f.sleeps = append(f.sleeps, d)
}

func testConfig(t *testing.T, tempWorkspaceID int, videoMap, imageMap []string) *config.Config {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "NUM_WORKSPACES=5\nTEMP_WORKSPACE_ID=%d\nGAP_SIZE=10\nTOP_GAP=20\n", tempWorkspaceID)
	fmt.Fprintf(&b, "VIDEO_MAP=(%s)\n", quoteAll(videoMap))
	fmt.Fprintf(&b, "IMAGE_MAP=(%s)\n", quoteAll(imageMap))

	path := filepath.Join(t.TempDir(), "config.conf")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	cfg, err := config.Load(slog.New(slog.NewTextHandler(io.Discard, nil)), path)
	require.NoError(t, err)

	return cfg
}

func quoteAll(entries []string) string {
	quoted := make([]string, len(entries))
	for i, entry := range entries {
		quoted[i] = fmt.Sprintf("%q", entry)
	}
	return strings.Join(quoted, " ")
}

type fixture struct {
	orch  *Orchestrator
	hypr  *fakeHypr
	video *fakeVideo
	paper *fakePaper
	tiler *fakeTiler
	binds *fakeBinds
	clock *fakeClock
}

func newFixture(t *testing.T, cfg *config.Config, tunables config.Tunables) *fixture {
	t.Helper()

	f := &fixture{
		hypr:  &fakeHypr{activeWs: 1},
		video: &fakeVideo{},
		paper: &fakePaper{},
		tiler: &fakeTiler{},
		binds: &fakeBinds{},
		clock: &fakeClock{step: time.Millisecond},
	}

	f.orch = New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg,
		tunables,
		f.hypr,
		f.video,
		f.paper,
		f.tiler,
		f.binds,
		f.clock,
		nil,
		nil,
	)

	return f
}

func TestStartupMigratesAndRestores(t *testing.T) {
	cfg := testConfig(t, 5,
		[]string{"1:/videos/rain.mp4"},
		[]string{"3:/images/forest.png"})

	f := newFixture(t, cfg, config.DefaultTunables())
	f.hypr.activeWs = 2
	f.hypr.windows = []hypr.Window{
		{Address: "0xaaa", Title: "firefox", Workspace: hypr.WorkspaceRef{ID: 1}},
		{Address: "0xbbb", Title: "kitty", Workspace: hypr.WorkspaceRef{ID: 2}},
		{Address: "0xccc", Title: "mpv-workspace-video-1", Workspace: hypr.WorkspaceRef{ID: 1}},
		{Address: "0xddd", Title: "slack", Workspace: hypr.WorkspaceRef{ID: 42}},
	}

	require.NoError(t, f.orch.startup(context.Background()))

	// moved out, moved back, nothing left behind
	assert.Empty(t, f.orch.State().SavedWindows)
	assert.Contains(t, f.hypr.dispatches, []string{"movetoworkspacesilent", "5,address:0xaaa"})
	assert.Contains(t, f.hypr.dispatches, []string{"movetoworkspacesilent", "5,address:0xbbb"})
	assert.Contains(t, f.hypr.dispatches, []string{"movetoworkspacesilent", "1,address:0xaaa"})
	assert.Contains(t, f.hypr.dispatches, []string{"movetoworkspacesilent", "2,address:0xbbb"})

	for _, dispatch := range f.hypr.dispatches {
		assert.NotContains(t, dispatch[1], "0xccc")
		assert.NotContains(t, dispatch[1], "0xddd")
	}

	assert.Equal(t, []int{1, 2}, f.tiler.retiled)

	// stale players killed before the fresh ones start
	assert.Equal(t, 1, f.video.stopCount)
	assert.Equal(t, cfg.VideoMap, f.video.started)
	assert.Equal(t, 1, f.paper.ensureCount)

	// initial switch decision ran for the focused workspace
	assert.Equal(t, 2, f.orch.State().CurrentWorkspace)
	require.NotEmpty(t, f.binds.calls)
	assert.Equal(t, bindCall{2, false}, f.binds.calls[len(f.binds.calls)-1])
}

func TestStartupSkipsMigrationForRemoteTempWorkspace(t *testing.T) {
	cfg := testConfig(t, 99, []string{"1:/videos/rain.mp4"}, nil)

	f := newFixture(t, cfg, config.DefaultTunables())
	f.hypr.windows = []hypr.Window{
		{Address: "0xaaa", Title: "firefox", Workspace: hypr.WorkspaceRef{ID: 1}},
	}

	require.NoError(t, f.orch.startup(context.Background()))

	for _, dispatch := range f.hypr.dispatches {
		assert.NotEqual(t, "movetoworkspacesilent", dispatch[0])
	}
	assert.Empty(t, f.orch.State().SavedWindows)
	assert.Empty(t, f.tiler.retiled)
}

func TestSwitchToVideoWorkspace(t *testing.T) {
	cfg := testConfig(t, 5,
		[]string{"1:/videos/rain.mp4", "2:/videos/fire.mp4"},
		[]string{"3:/images/forest.png"})

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: events.Workspace, Args: []string{"1"}})

	// every mapped player gets an explicit command on every switch
	assert.Len(t, f.video.pauseCalls, 2)
	assert.Contains(t, f.video.pauseCalls, pauseCall{1, false})
	assert.Contains(t, f.video.pauseCalls, pauseCall{2, true})
	assert.Equal(t, []int{1}, f.video.unpausedWorkspaces())

	assert.Empty(t, f.paper.wallpapers)
	assert.Equal(t, 1, f.paper.unloadCount)
	assert.Equal(t, []bindCall{{1, true}}, f.binds.calls)
	assert.Equal(t, 1, f.orch.State().CurrentWorkspace)
}

func TestSwitchToImageWorkspace(t *testing.T) {
	cfg := testConfig(t, 5,
		[]string{"1:/videos/rain.mp4", "2:/videos/fire.mp4"},
		[]string{"3:/images/forest.png"})

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: events.Workspace, Args: []string{"3"}})

	assert.Empty(t, f.video.unpausedWorkspaces())
	assert.Equal(t, []string{"/images/forest.png"}, f.paper.wallpapers)
	assert.Zero(t, f.paper.unloadCount)
	assert.Equal(t, []bindCall{{3, false}}, f.binds.calls)
}

func TestSwitchToBareWorkspace(t *testing.T) {
	cfg := testConfig(t, 5,
		[]string{"1:/videos/rain.mp4"},
		[]string{"3:/images/forest.png"})

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: events.Workspace, Args: []string{"4"}})

	assert.Empty(t, f.video.unpausedWorkspaces())
	assert.Empty(t, f.paper.wallpapers)
	assert.Equal(t, 1, f.paper.unloadCount)
	assert.Equal(t, []bindCall{{4, false}}, f.binds.calls)
}

func TestSwitchSequenceKeepsAtMostOnePlayerRunning(t *testing.T) {
	cfg := testConfig(t, 5,
		[]string{"1:/videos/rain.mp4", "2:/videos/fire.mp4", "4:/videos/waves.mp4"},
		nil)

	f := newFixture(t, cfg, config.DefaultTunables())
	ctx := context.Background()

	for _, ws := range []string{"1", "2", "4", "3", "1", "5"} {
		f.orch.Handle(ctx, events.Event{Name: events.Workspace, Args: []string{ws}})
		assert.LessOrEqual(t, len(f.video.unpausedWorkspaces()), 1, "after switch to %s", ws)
	}

	assert.Empty(t, f.video.unpausedWorkspaces())
	assert.Equal(t, 1, f.orch.State().PreviousWorkspace)
	assert.Equal(t, 5, f.orch.State().CurrentWorkspace)
}

func TestNonNumericWorkspaceIgnored(t *testing.T) {
	cfg := testConfig(t, 5, []string{"1:/videos/rain.mp4"}, nil)

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: events.Workspace, Args: []string{"special:scratch"}})

	assert.Empty(t, f.video.pauseCalls)
	assert.Empty(t, f.binds.calls)
	assert.Zero(t, f.orch.State().CurrentWorkspace)
}

func TestOpenWindowPlacesThenRetiles(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	f := newFixture(t, cfg, config.DefaultTunables())
	f.hypr.activeWs = 3

	f.orch.Handle(context.Background(), events.Event{Name: events.OpenWindow, Args: []string{"0xabc", "3", "kitty", "kitty"}})

	assert.Equal(t, []string{"0xabc"}, f.tiler.placed)
	assert.Equal(t, []int{3}, f.tiler.retiled)
}

func TestOpenWindowWithoutAddressIgnored(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: events.OpenWindow})

	assert.Empty(t, f.tiler.placed)
	assert.Empty(t, f.tiler.retiled)
}

func TestCloseWindowRetilesActiveWorkspace(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	f := newFixture(t, cfg, config.DefaultTunables())
	f.hypr.activeWs = 2

	f.orch.Handle(context.Background(), events.Event{Name: events.CloseWindow, Args: []string{"0xabc"}})

	assert.Equal(t, []int{2}, f.tiler.retiled)
}

func TestResizeWindowCascades(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	f := newFixture(t, cfg, config.DefaultTunables())
	f.hypr.activeWs = 4

	f.orch.Handle(context.Background(), events.Event{Name: events.ResizeWindow, Args: []string{"0xabc", "900", "700"}})

	assert.Equal(t, []string{"4:0xabc"}, f.tiler.cascaded)
}

func TestUnknownEventIgnored(t *testing.T) {
	cfg := testConfig(t, 5, []string{"1:/videos/rain.mp4"}, nil)

	f := newFixture(t, cfg, config.DefaultTunables())

	f.orch.Handle(context.Background(), events.Event{Name: "monitoradded", Args: []string{"HDMI-1"}})

	assert.Empty(t, f.video.pauseCalls)
	assert.Empty(t, f.tiler.retiled)
	assert.Empty(t, f.hypr.dispatches)
}

type failingSource struct {
	calls int
}

func (s *failingSource) Listen(_ context.Context, _ string, _ chan<- events.Event) error {
	s.calls++
	return fmt.Errorf("listen: %w", events.ErrStreamLost)
}

func TestEventLoopGivesUpAfterReconnectBudget(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	tunables := config.DefaultTunables()
	tunables.ReconnectAttempts = 3

	f := newFixture(t, cfg, tunables)

	source := &failingSource{}
	f.orch.source = source
	f.orch.resolve = func(_ context.Context) (string, error) {
		return "/tmp/nowhere/.socket2.sock", nil
	}

	err := f.orch.eventLoop(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, events.ErrStreamLost)
	assert.Equal(t, 3, source.calls)
	// two backoff sleeps happened before the budget ran out
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, f.clock.sleeps)
}

func TestEventLoopStopsOnResolverFailureBudget(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	tunables := config.DefaultTunables()
	tunables.ReconnectAttempts = 2

	f := newFixture(t, cfg, tunables)

	resolveCalls := 0
	f.orch.resolve = func(_ context.Context) (string, error) {
		resolveCalls++
		return "", fmt.Errorf("no hyprland instance")
	}

	err := f.orch.eventLoop(context.Background())

	require.Error(t, err)
	assert.Equal(t, 2, resolveCalls)
}

func TestEventLoopReturnsNilWhenContextCancelled(t *testing.T) {
	cfg := testConfig(t, 5, nil, nil)

	f := newFixture(t, cfg, config.DefaultTunables())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.orch.eventLoop(ctx))
}
