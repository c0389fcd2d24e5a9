package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
)

// maxTempWorkspaceID bounds the migration: a temp workspace beyond this is
// assumed to be a misconfiguration and the migration is skipped entirely.
const maxTempWorkspaceID = 10

// startup runs the one-time sequence before the event loop: kill stale
// players from a previous run, migrate existing windows out of the way,
// bring up both backends, restore the windows, retile, and finally run one
// full switch decision for whatever workspace is focused.
func (o *Orchestrator) startup(ctx context.Context) error {
	o.logger.InfoContext(ctx, "orchestrator: startup",
		slog.Int("videos", len(o.cfg.VideoMap)),
		slog.Int("images", len(o.cfg.ImageMap)))

	o.video.StopAll(ctx)

	migrate := o.cfg.TempWorkspaceID <= maxTempWorkspaceID
	if migrate {
		o.migrateWindows(ctx)
	} else {
		o.logger.WarnContext(ctx, "orchestrator: skipping window migration, temp workspace out of range",
			slog.Int("tempWorkspace", o.cfg.TempWorkspaceID))
	}

	if err := o.video.StartAll(ctx, o.cfg.VideoMap); err != nil {
		o.logger.ErrorContext(ctx, "orchestrator: could not start video backends", slog.Any("error", err))
	}

	if len(o.cfg.ImageMap) > 0 {
		o.paper.EnsureRunning(ctx)
	}

	o.clock.Sleep(ctx, o.tunables.BackendsSettle)

	if migrate {
		o.restoreWindows(ctx)
	}

	if workspaceID, err := o.hypr.ActiveWorkspaceID(ctx); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not resolve initial workspace", slog.Any("error", err))
	} else {
		o.applySwitchDecision(ctx, workspaceID)
	}

	o.logger.InfoContext(ctx, "orchestrator: startup complete")

	return ctx.Err()
}

// migrateWindows records every real window's workspace and parks it on the
// temp workspace so nothing gets trapped beneath an appearing video layer.
func (o *Orchestrator) migrateWindows(ctx context.Context) {
	windows, err := o.hypr.Clients(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not enumerate windows for migration", slog.Any("error", err))
		return
	}

	moved := 0
	for _, window := range windows {
		if strings.HasPrefix(window.Title, settings.WindowClass) {
			continue
		}
		workspaceID := window.Workspace.ID
		if workspaceID < 1 || workspaceID > o.cfg.NumWorkspaces {
			continue
		}

		o.state.SavedWindows[window.Address] = workspaceID
		o.dispatchSilentMove(ctx, o.cfg.TempWorkspaceID, window.Address)
		moved++
	}

	o.logger.InfoContext(ctx, "orchestrator: parked windows on temp workspace",
		slog.Int("count", moved),
		slog.Int("tempWorkspace", o.cfg.TempWorkspaceID))
}

// restoreWindows puts every migrated window back and retiles each affected
// workspace once. The saved map is fully drained here, before the event
// loop starts.
func (o *Orchestrator) restoreWindows(ctx context.Context) {
	if len(o.state.SavedWindows) == 0 {
		return
	}

	touched := make(map[int]bool)
	for address, workspaceID := range o.state.SavedWindows {
		o.dispatchSilentMove(ctx, workspaceID, address)
		touched[workspaceID] = true
		delete(o.state.SavedWindows, address)
	}

	o.clock.Sleep(ctx, o.tunables.RestoreSettle)

	workspaceIDs := make([]int, 0, len(touched))
	for workspaceID := range touched {
		workspaceIDs = append(workspaceIDs, workspaceID)
	}
	sort.Ints(workspaceIDs)

	for _, workspaceID := range workspaceIDs {
		o.clock.Sleep(ctx, o.tunables.RetilePacing)
		if err := o.tiler.Retile(ctx, workspaceID); err != nil {
			o.logger.WarnContext(ctx, "orchestrator: retile after restore failed",
				slog.Int("workspace", workspaceID),
				slog.Any("error", err))
		}
	}

	o.logger.InfoContext(ctx, "orchestrator: restored windows",
		slog.Int("workspaces", len(workspaceIDs)))
}

func (o *Orchestrator) dispatchSilentMove(ctx context.Context, workspaceID int, address string) {
	err := o.hypr.Dispatch(ctx, "movetoworkspacesilent",
		fmt.Sprintf("%d,address:%s", workspaceID, address))
	if err != nil {
		o.logger.DebugContext(ctx, "orchestrator: silent move failed",
			slog.String("address", address),
			slog.Any("error", err))
	}
}
