package setup

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/console"
	"github.com/lmittmann/tint"
	"github.com/spf13/viper"
)

type ExecutionResult = int

const (
	Ok    ExecutionResult = 0
	NotOk ExecutionResult = -1
)

func initViper() (*viper.Viper, error) {
	viperInstance := viper.New()

	viperInstance.SetEnvPrefix("HYPR_WALLPAPERS")
	viperInstance.AutomaticEnv()
	viperInstance.SetDefault("log_level", "info")

	return viperInstance, nil
}

func logLevel(viperInstance *viper.Viper) slog.Level {
	switch viperInstance.GetString("log_level") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type ProgramExecutor func(ctx context.Context, logger *slog.Logger) error

type ExecutorBuilder func(
	viper *viper.Viper,
	console *console.Console,
) ProgramExecutor

func Run(buildExecutor ExecutorBuilder) ExecutionResult {
	start := time.Now()

	viper, err := initViper()

	if err != nil {
		slog.Error("main: could not setup configuration", slog.Any("err", err))
		return NotOk
	}

	logger := slog.New(tint.NewHandler(
		os.Stderr,
		&tint.Options{Level: logLevel(viper)},
	))

	defer func() {
		elapsed := time.Since(start)
		logger.Info("cli: took", slog.Duration("elapsed", elapsed))
	}()

	console := &console.Console{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}

	// Termination signals cancel the context; the orchestrator's cleanup
	// (stopping owned players) runs on the way out of the executor.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = buildExecutor(viper, console)(ctx, logger)

	if err != nil {
		logger.Error("main: failed to execute program", slog.Any("err", err))
		return NotOk
	}

	logger.Debug("main: completed", slog.Int("status_code", Ok))

	return Ok
}
