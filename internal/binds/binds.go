package binds

import (
	"fmt"
	"log/slog"
	"os"
)

// Writer regenerates the togglefloating fragment sourced by the Hyprland
// config. The fragment is a pure overwrite: exactly one file represents the
// current state, there is no append path.
type Writer struct {
	logger   *slog.Logger
	confPath string
	// bindsPath holds the original bind lines captured at install time;
	// they are restored verbatim when the bind is re-enabled.
	bindsPath string
}

func NewWriter(logger *slog.Logger, confPath, bindsPath string) *Writer {
	return &Writer{
		logger:    logger,
		confPath:  confPath,
		bindsPath: bindsPath,
	}
}

// Apply rewrites the fragment for the given workspace: disabled when the
// workspace hosts a video wallpaper, enabled otherwise.
func (w *Writer) Apply(workspaceID int, hasVideo bool) error {
	if hasVideo {
		return w.disable(workspaceID)
	}
	return w.enable(workspaceID)
}

func (w *Writer) disable(workspaceID int) error {
	content := fmt.Sprintf("# Togglefloating disabled on video workspace %d\n", workspaceID)

	if err := os.WriteFile(w.confPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("binds: could not write fragment: %w", err)
	}

	w.logger.Debug("binds: togglefloating disabled", slog.Int("workspace", workspaceID))
	return nil
}

func (w *Writer) enable(workspaceID int) error {
	header := fmt.Sprintf("# Togglefloating enabled on non-video workspace %d\n", workspaceID)

	captured, err := os.ReadFile(w.bindsPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("binds: could not read captured binds: %w", err)
		}
		// No capture file: the comment line alone still flips the state.
		captured = nil
	}

	if err := os.WriteFile(w.confPath, append([]byte(header), captured...), 0644); err != nil {
		return fmt.Errorf("binds: could not write fragment: %w", err)
	}

	w.logger.Debug("binds: togglefloating enabled", slog.Int("workspace", workspaceID))
	return nil
}
