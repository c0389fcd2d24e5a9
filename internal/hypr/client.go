package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/XclusivVv/hyprland-video-wallpapers/internal/command"
)

// Client is the synchronous request/response side of Hyprland: dispatch
// commands plus JSON queries. The event side lives in hypr/events.
type Client interface {
	Dispatch(ctx context.Context, args ...string) error
	Clients(ctx context.Context) ([]Window, error)
	Monitors(ctx context.Context) ([]Monitor, error)
	FocusedMonitor(ctx context.Context) (*Monitor, error)
	ActiveWorkspaceID(ctx context.Context) (int, error)
	InstanceSignature(ctx context.Context) (string, error)
}

type CtlClient struct {
	logger *slog.Logger
	runner command.Runner
}

func NewCtlClient(logger *slog.Logger, runner command.Runner) *CtlClient {
	return &CtlClient{
		logger,
		runner,
	}
}

func (c *CtlClient) Dispatch(ctx context.Context, args ...string) error {
	dispatchArgs := append([]string{"dispatch"}, args...)

	_, err := c.runner.Run(ctx, "hyprctl", dispatchArgs...)

	if err != nil {
		return fmt.Errorf("hypr: dispatch %v failed: %w", args, err)
	}

	return nil
}

func (c *CtlClient) Clients(ctx context.Context) ([]Window, error) {
	out, err := c.runner.Run(ctx, "hyprctl", "clients", "-j")

	if err != nil {
		return nil, fmt.Errorf("hypr: could not query clients: %w", err)
	}

	var windows []Window
	if err := json.Unmarshal([]byte(out), &windows); err != nil {
		return nil, fmt.Errorf("hypr: could not deserialize clients: %w", err)
	}

	return windows, nil
}

func (c *CtlClient) Monitors(ctx context.Context) ([]Monitor, error) {
	out, err := c.runner.Run(ctx, "hyprctl", "monitors", "-j")

	if err != nil {
		return nil, fmt.Errorf("hypr: could not query monitors: %w", err)
	}

	var monitors []Monitor
	if err := json.Unmarshal([]byte(out), &monitors); err != nil {
		return nil, fmt.Errorf("hypr: could not deserialize monitors: %w", err)
	}

	return monitors, nil
}

func (c *CtlClient) FocusedMonitor(ctx context.Context) (*Monitor, error) {
	monitors, err := c.Monitors(ctx)

	if err != nil {
		return nil, err
	}

	for i := range monitors {
		if monitors[i].Focused {
			return &monitors[i], nil
		}
	}

	return nil, fmt.Errorf("hypr: no focused monitor")
}

func (c *CtlClient) ActiveWorkspaceID(ctx context.Context) (int, error) {
	monitor, err := c.FocusedMonitor(ctx)

	if err != nil {
		return 0, err
	}

	return monitor.ActiveWorkspace.ID, nil
}

func (c *CtlClient) InstanceSignature(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "hyprctl", "instance", "-j")

	if err != nil {
		return "", fmt.Errorf("hypr: could not query instance: %w", err)
	}

	var instance Instance
	if err := json.Unmarshal([]byte(out), &instance); err != nil {
		return "", fmt.Errorf("hypr: could not deserialize instance: %w", err)
	}

	return strings.TrimSpace(instance.InstanceSignature), nil
}
