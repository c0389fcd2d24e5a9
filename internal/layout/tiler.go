package layout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
)

// Tiler applies computed geometry through the compositor's dispatch
// interface. It re-queries window and monitor state on every call: window
// state can change between events, so nothing here is cached.
type Tiler struct {
	logger          *slog.Logger
	hypr            hypr.Client
	gap             int
	topGap          int
	wallpaperPrefix string
	cascade         CascadePolicy
}

func NewTiler(
	logger *slog.Logger,
	hyprClient hypr.Client,
	gap int,
	topGap int,
	wallpaperPrefix string,
	cascade CascadePolicy,
) *Tiler {
	cascade.Gap = gap

	return &Tiler{
		logger:          logger,
		hypr:            hyprClient,
		gap:             gap,
		topGap:          topGap,
		wallpaperPrefix: wallpaperPrefix,
		cascade:         cascade,
	}
}

// Retile pseudo-tiles every floating non-wallpaper window on the workspace.
// Degenerate state (no windows, no focused monitor) skips the cycle instead
// of failing: the next event will retile again anyway.
func (t *Tiler) Retile(ctx context.Context, workspaceID int) error {
	windows, err := t.tileableWindows(ctx, workspaceID)
	if err != nil {
		return err
	}

	if len(windows) == 0 {
		return nil
	}

	monitor, err := t.hypr.FocusedMonitor(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "layout: skipping retile, no focused monitor", slog.Any("error", err))
		return nil
	}

	usable := Usable(monitor.Width, monitor.Height, t.gap, t.topGap)
	rects := Compute(len(windows), usable, t.gap)

	for i, window := range windows {
		t.applyRect(ctx, window.Address, rects[i])
	}

	t.logger.DebugContext(ctx, "layout: retiled workspace",
		slog.Int("workspace", workspaceID),
		slog.Int("windows", len(windows)))

	return nil
}

// PlaceNewWindow gives a just-opened window the near-fullscreen default
// before the follow-up retile reflows the whole workspace.
func (t *Tiler) PlaceNewWindow(ctx context.Context, address string) error {
	monitor, err := t.hypr.FocusedMonitor(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "layout: skipping placement, no focused monitor", slog.Any("error", err))
		return nil
	}

	rect := DefaultOpenRect(monitor.Width, monitor.Height, t.gap, t.topGap)
	t.applyRect(ctx, address, rect)

	return nil
}

// CascadeResize keeps the neighbors of a manually resized window flush
// against its new edges. Single hop per side; width below the policy
// minimum drops the adjustment.
func (t *Tiler) CascadeResize(ctx context.Context, workspaceID int, address string) error {
	windows, err := t.tileableWindows(ctx, workspaceID)
	if err != nil {
		return err
	}

	var resized *hypr.Window
	neighbors := make([]Neighbor, 0, len(windows))

	for i, window := range windows {
		if window.Address == address {
			resized = &windows[i]
			continue
		}
		if !window.HasGeometry() {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Address: window.Address,
			Rect:    rectOf(window),
		})
	}

	if resized == nil || !resized.HasGeometry() {
		t.logger.DebugContext(ctx, "layout: resized window has no geometry, skipping cascade",
			slog.String("address", address))
		return nil
	}

	adjustments := Cascade(rectOf(*resized), neighbors, t.cascade)

	for _, adj := range adjustments {
		t.dispatch(ctx, "resizewindowpixel",
			fmt.Sprintf("exact %d %d,address:%s", adj.Width, adj.Height, adj.Address))
		if adj.Move {
			t.dispatch(ctx, "movewindowpixel",
				fmt.Sprintf("exact %d %d,address:%s", adj.X, adj.Y, adj.Address))
		}
	}

	return nil
}

func (t *Tiler) tileableWindows(ctx context.Context, workspaceID int) ([]hypr.Window, error) {
	all, err := t.hypr.Clients(ctx)
	if err != nil {
		return nil, fmt.Errorf("layout: could not list windows: %w", err)
	}

	var windows []hypr.Window
	for _, window := range all {
		if window.Workspace.ID != workspaceID {
			continue
		}
		if !window.Floating {
			continue
		}
		if strings.HasPrefix(window.Title, t.wallpaperPrefix) {
			continue
		}
		windows = append(windows, window)
	}

	return windows, nil
}

func (t *Tiler) applyRect(ctx context.Context, address string, rect Rect) {
	t.dispatch(ctx, "resizewindowpixel",
		fmt.Sprintf("exact %d %d,address:%s", rect.Width, rect.Height, address))
	t.dispatch(ctx, "movewindowpixel",
		fmt.Sprintf("exact %d %d,address:%s", rect.X, rect.Y, address))
}

func (t *Tiler) dispatch(ctx context.Context, args ...string) {
	if err := t.hypr.Dispatch(ctx, args...); err != nil {
		// Window may already be gone; the compositor will say so.
		t.logger.DebugContext(ctx, "layout: dispatch failed", slog.Any("error", err))
	}
}

func rectOf(w hypr.Window) Rect {
	return Rect{X: w.X(), Y: w.Y(), Width: w.Width(), Height: w.Height()}
}
