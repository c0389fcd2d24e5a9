package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/runner"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/wallpaperd"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func NewStartCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "start the wallpaper orchestrator",
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runStartCmd())
		},
	}

	startCmd.SetOut(console.Stdout)
	startCmd.SetErr(console.Stderr)

	return startCmd
}

func runStartCmd() runner.RunE {
	return func(
		ctx context.Context,
		_ *console.Console,
		_ []string,
		di *wallpaperd.Wallpaperd,
	) error {
		if err := runner.CreatePidFile(settings.PidFilePath); err != nil {
			return err
		}

		defer func() {
			if err := runner.RemovePidFile(settings.PidFilePath); err != nil {
				di.Logger.ErrorContext(ctx, "start: could not remove pid file", slog.Any("error", err))
			}
		}()

		group, groupCtx := errgroup.WithContext(ctx)

		group.Go(func() error {
			return di.Orchestrator.Run(groupCtx)
		})

		group.Go(func() error {
			heartbeat(groupCtx, di)
			return nil
		})

		err := group.Wait()

		di.Logger.InfoContext(ctx, "start: shutdown complete")

		return err
	}
}

// heartbeat periodically confirms the daemon is alive in the logs. It never
// touches the compositor or the backends; those are owned by the single
// event-loop goroutine.
func heartbeat(ctx context.Context, di *wallpaperd.Wallpaperd) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			di.Logger.DebugContext(ctx, "start: heartbeat",
				slog.Int("videoWorkspaces", len(di.Config.VideoMap)),
				slog.Int("imageWorkspaces", len(di.Config.ImageMap)))
		}
	}
}
