package wallpaperd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/backend/hyprpaper"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/backend/mpv"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/binds"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/clock"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/command"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr/events"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/layout"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/orchestrator"
)

// Wallpaperd is the composition root: everything the commands need, wired
// once at startup.
type Wallpaperd struct {
	Logger       *slog.Logger
	Config       *config.Config
	Tunables     config.Tunables
	Hypr         hypr.Client
	Video        mpv.Controller
	Paper        hyprpaper.Controller
	Tiler        *layout.Tiler
	Binds        *binds.Writer
	Clock        clock.Clock
	Orchestrator *orchestrator.Orchestrator
}

func New(ctx context.Context, logger *slog.Logger, configPath string) (*Wallpaperd, error) {
	if configPath == "" {
		resolved, err := settings.ConfigFilePath()
		if err != nil {
			return nil, fmt.Errorf("wallpaperd: could not resolve config path: %w", err)
		}
		configPath = resolved
	}

	cfg, err := config.Load(logger, configPath)
	if err != nil {
		return nil, err
	}

	tunablesPath, err := settings.TunablesFilePath()
	if err != nil {
		return nil, fmt.Errorf("wallpaperd: could not resolve tunables path: %w", err)
	}

	tunables, err := config.ReadTunables(tunablesPath)
	if err != nil {
		logger.WarnContext(ctx, "wallpaperd: tunables file unreadable, using defaults", slog.Any("error", err))
	}

	confPath, err := settings.TogglefloatConfPath()
	if err != nil {
		return nil, fmt.Errorf("wallpaperd: could not resolve togglefloating fragment path: %w", err)
	}
	bindsPath, err := settings.TogglefloatBindsPath()
	if err != nil {
		return nil, fmt.Errorf("wallpaperd: could not resolve captured binds path: %w", err)
	}

	runner := command.NewCommand(logger)
	hyprClient := hypr.NewCtlClient(logger, runner)
	clk := clock.NewSystemClock()

	video := mpv.NewPlayerController(
		logger, runner, hyprClient, clk,
		tunables.PlayerSettle, tunables.PlacementSettle,
	)

	paper := hyprpaper.NewPaperController(
		logger, runner, hyprClient, clk,
		settings.BlankImagePath,
		tunables.DaemonSettle, tunables.PreloadSettle, tunables.BlankSettle,
	)

	tiler := layout.NewTiler(
		logger, hyprClient,
		cfg.GapSize, cfg.TopGap,
		settings.WindowClass,
		layout.CascadePolicy{
			ToleranceMin: tunables.CascadeToleranceMin,
			ToleranceMax: tunables.CascadeToleranceMax,
			MinWidth:     tunables.CascadeMinWidth,
		},
	)

	bindWriter := binds.NewWriter(logger, confPath, bindsPath)
	listener := events.NewListener(logger)

	core := orchestrator.New(
		logger, cfg, tunables,
		hyprClient, video, paper, tiler, bindWriter, clk,
		listener,
		func(ctx context.Context) (string, error) {
			return events.DiscoverSocket(ctx, logger, hyprClient)
		},
	)

	return &Wallpaperd{
		Logger:       logger,
		Config:       cfg,
		Tunables:     tunables,
		Hypr:         hyprClient,
		Video:        video,
		Paper:        paper,
		Tiler:        tiler,
		Binds:        bindWriter,
		Clock:        clk,
		Orchestrator: core,
	}, nil
}
