package runner

import (
	"context"
	"log/slog"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/wallpaperd"
	"github.com/spf13/viper"
)

type RunE func(
	ctx context.Context,
	console *console.Console,
	args []string,
	di *wallpaperd.Wallpaperd,
) error

// RunCmdE builds the composition root and hands it to the command body.
// Config loading failures surface here, before any side effect happens.
func RunCmdE(
	ctx context.Context,
	logger *slog.Logger,
	viper *viper.Viper,
	console *console.Console,
	args []string,
	run RunE,
) error {
	di, err := wallpaperd.New(ctx, logger, viper.GetString("config"))

	if err != nil {
		return err
	}

	return run(ctx, console, args, di)
}
