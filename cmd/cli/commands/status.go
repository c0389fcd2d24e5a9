package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/runner"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/wallpaperd"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewStatusCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "report daemon liveness and configured wallpapers",
		RunE: func(_ *cobra.Command, args []string) error {
			return runner.RunCmdE(ctx, logger, viper, console, args, runStatusCmd())
		},
	}

	statusCmd.SetOut(console.Stdout)
	statusCmd.SetErr(console.Stderr)

	return statusCmd
}

func runStatusCmd() runner.RunE {
	return func(
		_ context.Context,
		console *console.Console,
		_ []string,
		di *wallpaperd.Wallpaperd,
	) error {
		if pid, err := runner.ReadPid(settings.PidFilePath); err == nil && runner.IsAlive(pid) {
			fmt.Fprintf(console.Stdout, "daemon: running (pid %d)\n", pid)
		} else {
			fmt.Fprintln(console.Stdout, "daemon: not running")
		}

		fmt.Fprintf(console.Stdout, "workspaces: %d (temp %d)\n",
			di.Config.NumWorkspaces, di.Config.TempWorkspaceID)
		fmt.Fprintf(console.Stdout, "video wallpapers: %d\n", len(di.Config.VideoMap))
		fmt.Fprintf(console.Stdout, "image wallpapers: %d\n", len(di.Config.ImageMap))

		return nil
	}
}
