package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/runner"
	"github.com/spf13/cobra"
)

func NewStopCmd(
	ctx context.Context,
	logger *slog.Logger,
	console *console.Console,
) *cobra.Command {
	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "stop a running orchestrator",
		RunE: func(_ *cobra.Command, _ []string) error {
			pid, err := runner.ReadPid(settings.PidFilePath)
			if err != nil {
				return fmt.Errorf("stop: no running daemon found: %w", err)
			}

			if !runner.IsAlive(pid) {
				logger.WarnContext(ctx, "stop: stale pid file, cleaning up", slog.Int("pid", pid))
				return runner.RemovePidFile(settings.PidFilePath)
			}

			if err := runner.Terminate(pid); err != nil {
				return err
			}

			fmt.Fprintf(console.Stdout, "sent SIGTERM to pid %d\n", pid)
			return nil
		},
	}

	stopCmd.SetOut(console.Stdout)
	stopCmd.SetErr(console.Stderr)

	return stopCmd
}
