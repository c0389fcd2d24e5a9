package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/commands"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/setup"
	"github.com/spf13/viper"
)

func cli(viper *viper.Viper, console *console.Console) setup.ProgramExecutor {
	return func(ctx context.Context, logger *slog.Logger) error {
		return commands.NewRootCmd(ctx, logger, viper, console).ExecuteContext(ctx)
	}
}

func main() {
	result := setup.Run(cli)

	if result == setup.NotOk {
		os.Exit(1)
	}
}
