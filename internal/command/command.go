package command

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// Runner is the subset used by callers that only ever shell out. It exists
// so tests can record invocations instead of spawning processes.
type Runner interface {
	Run(ctx context.Context, name string, arg ...string) (string, error)
	Start(ctx context.Context, name string, arg ...string) error
}

type Command struct {
	logger *slog.Logger
}

func NewCommand(logger *slog.Logger) *Command {
	return &Command{
		logger,
	}
}

func (c Command) Run(ctx context.Context, name string, arg ...string) (string, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		c.logger.DebugContext(ctx, "command: took", slog.String("name", name), slog.Duration("elapsed", elapsed))
	}()

	cmd := exec.CommandContext(ctx, name, arg...)

	out, err := cmd.Output()

	if err != nil {
		//nolint:errorlint // no wrap
		return "", fmt.Errorf("could not run command '%s'. %v", name, err)
	}

	return string(out), nil
}

// Start launches a long-lived process without waiting for it. The child is
// detached from our lifetime; backends outlive individual event cycles.
func (c Command) Start(ctx context.Context, name string, arg ...string) error {
	cmd := exec.Command(name, arg...)

	c.logger.DebugContext(ctx, "command: starting", slog.String("name", name), slog.Any("args", arg))

	if err := cmd.Start(); err != nil {
		//nolint:errorlint // no wrap
		return fmt.Errorf("could not start command '%s'. %v", name, err)
	}

	go func() {
		// Reap the child so finished players do not linger as zombies.
		_ = cmd.Wait()
	}()

	return nil
}

func (c Command) RunBufferized(ctx context.Context, name string, arg ...string) (bytes.Buffer, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()

	if err != nil {
		return bytes.Buffer{}, fmt.Errorf("could not run command %w", err)
	}

	return out, nil
}
