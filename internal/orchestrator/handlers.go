package orchestrator

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr/events"
)

func (o *Orchestrator) handleWorkspace(ctx context.Context, event events.Event) {
	workspaceID, err := strconv.Atoi(event.Arg(0))
	if err != nil {
		// Named and special workspaces never carry wallpapers.
		o.logger.DebugContext(ctx, "orchestrator: ignoring non-numeric workspace",
			slog.String("arg", event.Arg(0)))
		return
	}

	o.applySwitchDecision(ctx, workspaceID)
}

// applySwitchDecision is the heart of the switch semantics, and its phase
// order is load-bearing: every video gets an explicit pause/resume first,
// then the image decision runs, then stale images are cleared, then the
// bind fragment flips. The full video map is iterated on every switch so a
// missed event can never leave two players running.
func (o *Orchestrator) applySwitchDecision(ctx context.Context, workspaceID int) {
	hasVideo := false
	for _, entry := range o.cfg.VideoMap {
		if entry.WorkspaceID == workspaceID {
			o.video.SetPaused(ctx, entry.WorkspaceID, false)
			hasVideo = true
		} else {
			o.video.SetPaused(ctx, entry.WorkspaceID, true)
		}
	}

	hasImage := false
	if !hasVideo {
		if assignment := o.cfg.Assignment(workspaceID); assignment.Kind == config.AssignmentImage {
			o.paper.SetWallpaper(ctx, assignment.Path)
			hasImage = true
		}
	}

	if hasVideo || !hasImage {
		o.paper.UnloadAll(ctx, o.cfg.ImageMap)
	}

	if err := o.binds.Apply(workspaceID, hasVideo); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not update togglefloating fragment",
			slog.Any("error", err))
	}

	o.state.PreviousWorkspace = o.state.CurrentWorkspace
	o.state.CurrentWorkspace = workspaceID

	o.logger.InfoContext(ctx, "orchestrator: workspace switched",
		slog.Int("workspace", workspaceID),
		slog.Bool("video", hasVideo),
		slog.Bool("image", hasImage))
}

func (o *Orchestrator) handleOpenWindow(ctx context.Context, event events.Event) {
	address := event.Arg(0)
	if address == "" {
		return
	}

	// Let the compositor's own placement finish before overriding it.
	o.clock.Sleep(ctx, o.tunables.OpenWindowSettle)

	workspaceID, err := o.hypr.ActiveWorkspaceID(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not resolve active workspace", slog.Any("error", err))
		return
	}

	if err := o.tiler.PlaceNewWindow(ctx, address); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not place new window", slog.Any("error", err))
	}

	o.clock.Sleep(ctx, o.tunables.OpenWindowSettle)

	if err := o.tiler.Retile(ctx, workspaceID); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: retile after open failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) handleCloseWindow(ctx context.Context, _ events.Event) {
	workspaceID, err := o.hypr.ActiveWorkspaceID(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not resolve active workspace", slog.Any("error", err))
		return
	}

	o.clock.Sleep(ctx, o.tunables.CloseRetileDelay)

	if err := o.tiler.Retile(ctx, workspaceID); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: retile after close failed", slog.Any("error", err))
	}
}

func (o *Orchestrator) handleResizeWindow(ctx context.Context, event events.Event) {
	address := event.Arg(0)
	if address == "" {
		return
	}

	workspaceID, err := o.hypr.ActiveWorkspaceID(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "orchestrator: could not resolve active workspace", slog.Any("error", err))
		return
	}

	if err := o.tiler.CascadeResize(ctx, workspaceID, address); err != nil {
		o.logger.WarnContext(ctx, "orchestrator: resize cascade failed", slog.Any("error", err))
	}
}
