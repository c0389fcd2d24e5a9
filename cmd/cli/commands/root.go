package commands

import (
	"context"
	"log/slog"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewRootCmd(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hyprland-video-wallpapers",
		Short:         "per-workspace video and image wallpapers for Hyprland",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to config.conf (defaults to the installer location)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.SetOut(console.Stdout)
	rootCmd.SetErr(console.Stderr)

	rootCmd.AddCommand(NewStartCmd(ctx, logger, viper, console))
	rootCmd.AddCommand(NewStopCmd(ctx, logger, console))
	rootCmd.AddCommand(NewStatusCmd(ctx, logger, viper, console))

	return rootCmd
}
