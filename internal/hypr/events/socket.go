package events

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// SignatureResolver is the one hyprctl query the event side needs; the full
// hypr.Client satisfies it.
type SignatureResolver interface {
	InstanceSignature(ctx context.Context) (string, error)
}

// DiscoverSocket resolves the socket2 path. Order matters: an explicit
// instance signature from the environment wins, then a filesystem probe of
// the known runtime directories, then the signature-derived default.
func DiscoverSocket(ctx context.Context, logger *slog.Logger, resolver SignatureResolver) (string, error) {
	signature := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")

	if signature == "" {
		resolved, err := resolver.InstanceSignature(ctx)
		if err != nil {
			logger.WarnContext(ctx, "events: could not resolve instance signature", slog.Any("error", err))
		} else {
			signature = resolved
		}
	}

	searchPaths := []string{"/tmp/hypr"}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		searchPaths = append(searchPaths, filepath.Join(runtimeDir, "hypr"))
	}

	for _, dir := range searchPaths {
		if found := probeForSocket(dir); found != "" {
			logger.DebugContext(ctx, "events: found event socket", slog.String("path", found))
			return found, nil
		}
	}

	if signature == "" {
		return "", fmt.Errorf("events: no event socket found and no instance signature available")
	}

	fallback := filepath.Join("/tmp/hypr", signature, ".socket2")
	logger.DebugContext(ctx, "events: falling back to signature-derived socket", slog.String("path", fallback))

	return fallback, nil
}

func probeForSocket(dir string) string {
	var found string

	_ = filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if found != "" {
			return filepath.SkipAll
		}
		if entry.Type()&os.ModeSocket == 0 {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".socket2") {
			found = path
			return filepath.SkipAll
		}
		return nil
	})

	return found
}
