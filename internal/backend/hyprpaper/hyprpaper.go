package hyprpaper

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/clock"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/command"
	"github.com/XclusivVv/hyprland-video-wallpapers/internal/hypr"
)

// Controller drives the single shared hyprpaper daemon through its hyprctl
// control plane. Unlike the video players, hyprpaper is not owned by us:
// we start it if needed but never stop it.
type Controller interface {
	EnsureRunning(ctx context.Context)
	SetWallpaper(ctx context.Context, imagePath string)
	UnloadAll(ctx context.Context, imageMap []config.MapEntry)
}

type PaperController struct {
	logger        *slog.Logger
	runner        command.Runner
	hypr          hypr.Client
	clock         clock.Clock
	blankPath     string
	daemonSettle  time.Duration
	preloadSettle time.Duration
	blankSettle   time.Duration
}

func NewPaperController(
	logger *slog.Logger,
	runner command.Runner,
	hyprClient hypr.Client,
	clk clock.Clock,
	blankPath string,
	daemonSettle time.Duration,
	preloadSettle time.Duration,
	blankSettle time.Duration,
) *PaperController {
	return &PaperController{
		logger:        logger,
		runner:        runner,
		hypr:          hyprClient,
		clock:         clk,
		blankPath:     blankPath,
		daemonSettle:  daemonSettle,
		preloadSettle: preloadSettle,
		blankSettle:   blankSettle,
	}
}

func (c *PaperController) isRunning(ctx context.Context) bool {
	_, err := c.runner.Run(ctx, "pgrep", "-x", "hyprpaper")
	return err == nil
}

// EnsureRunning starts the daemon when absent. Idempotent.
func (c *PaperController) EnsureRunning(ctx context.Context) {
	if c.isRunning(ctx) {
		return
	}

	if err := c.runner.Start(ctx, "hyprpaper"); err != nil {
		c.logger.ErrorContext(ctx, "hyprpaper: could not start daemon", slog.Any("error", err))
		return
	}

	c.clock.Sleep(ctx, c.daemonSettle)
	c.logger.InfoContext(ctx, "hyprpaper: daemon started")
}

// SetWallpaper preloads the image and sets it on every active output.
func (c *PaperController) SetWallpaper(ctx context.Context, imagePath string) {
	c.EnsureRunning(ctx)

	c.ctl(ctx, "preload", imagePath)
	c.clock.Sleep(ctx, c.preloadSettle)

	for _, name := range c.outputNames(ctx) {
		c.ctl(ctx, "wallpaper", fmt.Sprintf("%s,%s", name, imagePath))
	}

	c.logger.DebugContext(ctx, "hyprpaper: wallpaper set", slog.String("path", imagePath))
}

// UnloadAll clears every mapped image from the daemon. The blank
// placeholder goes up first on all outputs so no previous image survives
// behind the video layer, then the real images are unloaded. The blank
// itself stays loaded.
func (c *PaperController) UnloadAll(ctx context.Context, imageMap []config.MapEntry) {
	if !c.isRunning(ctx) {
		return
	}

	if err := c.ensureBlankImage(); err != nil {
		c.logger.WarnContext(ctx, "hyprpaper: could not create blank image", slog.Any("error", err))
		return
	}

	c.ctl(ctx, "preload", c.blankPath)
	c.clock.Sleep(ctx, c.blankSettle)

	for _, name := range c.outputNames(ctx) {
		c.ctl(ctx, "wallpaper", fmt.Sprintf("%s,%s", name, c.blankPath))
	}

	for _, entry := range imageMap {
		if entry.Path == c.blankPath {
			continue
		}
		c.ctl(ctx, "unload", entry.Path)
	}
}

func (c *PaperController) outputNames(ctx context.Context) []string {
	monitors, err := c.hypr.Monitors(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "hyprpaper: could not enumerate outputs", slog.Any("error", err))
		return nil
	}

	names := make([]string, 0, len(monitors))
	for _, monitor := range monitors {
		names = append(names, monitor.Name)
	}

	return names
}

func (c *PaperController) ctl(ctx context.Context, args ...string) {
	ctlArgs := append([]string{"hyprpaper"}, args...)

	if _, err := c.runner.Run(ctx, "hyprctl", ctlArgs...); err != nil {
		// Transient while the daemon is still settling; next decision retries.
		c.logger.DebugContext(ctx, "hyprpaper: control call failed",
			slog.Any("args", args),
			slog.Any("error", err))
	}
}

// ensureBlankImage writes the 10x10 black placeholder once.
func (c *PaperController) ensureBlankImage() error {
	if _, err := os.Stat(c.blankPath); err == nil {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.Black)
		}
	}

	file, err := os.Create(c.blankPath)
	if err != nil {
		return fmt.Errorf("hyprpaper: could not create blank image file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("hyprpaper: could not encode blank image: %w", err)
	}

	return nil
}
