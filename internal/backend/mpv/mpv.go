package mpv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/clock"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/command"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
)

// Controller owns one looping mpv process per video-mapped workspace, each
// driven through its private IPC socket.
type Controller interface {
	StartAll(ctx context.Context, videoMap []config.MapEntry) error
	SetPaused(ctx context.Context, workspaceID int, paused bool)
	StopAll(ctx context.Context)
}

type PlayerController struct {
	logger          *slog.Logger
	runner          command.Runner
	hypr            hypr.Client
	clock           clock.Clock
	playerSettle    time.Duration
	placementSettle time.Duration
	socketPath      func(workspaceID int) string
}

func NewPlayerController(
	logger *slog.Logger,
	runner command.Runner,
	hyprClient hypr.Client,
	clk clock.Clock,
	playerSettle time.Duration,
	placementSettle time.Duration,
) *PlayerController {
	return &PlayerController{
		logger:          logger,
		runner:          runner,
		hypr:            hyprClient,
		clock:           clk,
		playerSettle:    playerSettle,
		placementSettle: placementSettle,
		socketPath:      config.SocketPathFor,
	}
}

// StartAll launches one player per mapping, sized to the focused output.
// Each instance gets a settle period before it is placed on its workspace
// and paused; blocking beyond that per-instance settle is not allowed.
func (c *PlayerController) StartAll(ctx context.Context, videoMap []config.MapEntry) error {
	if len(videoMap) == 0 {
		return nil
	}

	monitor, err := c.hypr.FocusedMonitor(ctx)
	if err != nil {
		return fmt.Errorf("mpv: could not resolve screen geometry: %w", err)
	}

	for _, entry := range videoMap {
		if err := c.startOne(ctx, entry, monitor); err != nil {
			c.logger.ErrorContext(ctx, "mpv: could not start player",
				slog.Int("workspace", entry.WorkspaceID),
				slog.String("path", entry.Path),
				slog.Any("error", err))
			continue
		}

		c.logger.InfoContext(ctx, "mpv: started video wallpaper",
			slog.Int("workspace", entry.WorkspaceID),
			slog.String("path", entry.Path))
	}

	return nil
}

func (c *PlayerController) startOne(ctx context.Context, entry config.MapEntry, monitor *hypr.Monitor) error {
	socketPath := c.socketPath(entry.WorkspaceID)
	title := config.WindowTitleFor(entry.WorkspaceID)

	// A stale socket from a crashed run would shadow the new instance.
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		c.logger.WarnContext(ctx, "mpv: could not remove stale socket",
			slog.String("path", socketPath),
			slog.Any("error", err))
	}

	err := c.runner.Start(ctx, "mpv",
		"--no-osc",
		"--no-stop-screensaver",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		"--loop",
		"--video-sync=display-resample",
		fmt.Sprintf("--title=%s", title),
		fmt.Sprintf("--geometry=%dx%d+0+0", monitor.Width, monitor.Height),
		entry.Path,
	)
	if err != nil {
		return err
	}

	c.clock.Sleep(ctx, c.playerSettle)

	c.place(ctx, entry.WorkspaceID, title)

	// Freshly started players are silenced until their workspace focuses.
	c.SetPaused(ctx, entry.WorkspaceID, true)

	return nil
}

func (c *PlayerController) place(ctx context.Context, workspaceID int, title string) {
	target := fmt.Sprintf("title:%s", title)

	dispatches := [][]string{
		{"movetoworkspace", fmt.Sprintf("%d,%s", workspaceID, target)},
		{"focuswindow", target},
		{"layoutmsg", "focusmaster master"},
		{"splitratio", "exact 1.0"},
	}

	for i, args := range dispatches {
		if err := c.hypr.Dispatch(ctx, args...); err != nil {
			c.logger.DebugContext(ctx, "mpv: placement dispatch failed",
				slog.Any("args", args),
				slog.Any("error", err))
		}
		if i == 0 {
			c.clock.Sleep(ctx, c.placementSettle)
		}
	}
}

// SetPaused writes a pause/resume property command to the workspace's
// control socket. A missing or dead socket is a silent no-op: the player
// may not have started yet, or already exited, and this runs for every
// known video workspace on every switch.
func (c *PlayerController) SetPaused(ctx context.Context, workspaceID int, paused bool) {
	socketPath := c.socketPath(workspaceID)

	stat, err := os.Stat(socketPath)
	if err != nil || stat.Mode()&os.ModeSocket == 0 {
		return
	}

	conn, err := net.DialTimeout("unix", socketPath, time.Second)
	if err != nil {
		c.logger.DebugContext(ctx, "mpv: control socket not connectable",
			slog.String("path", socketPath),
			slog.Any("error", err))
		return
	}
	defer conn.Close()

	payload, err := json.Marshal(map[string]any{
		"command": []any{"set_property", "pause", paused},
	})
	if err != nil {
		return
	}

	_ = conn.SetWriteDeadline(time.Now().Add(time.Second))

	if _, err := conn.Write(append(payload, '\n')); err != nil {
		c.logger.DebugContext(ctx, "mpv: could not write control command",
			slog.String("path", socketPath),
			slog.Any("error", err))
	}
}

// StopAll terminates every player carrying the reserved title, whether
// owned by this run or left over from a previous one.
func (c *PlayerController) StopAll(ctx context.Context) {
	pattern := fmt.Sprintf("mpv --title=%s", settings.WindowClass)

	// pkill exits non-zero when nothing matched; that is fine.
	if _, err := c.runner.Run(ctx, "pkill", "-f", pattern); err != nil {
		c.logger.DebugContext(ctx, "mpv: no players to stop", slog.Any("error", err))
	}
}
