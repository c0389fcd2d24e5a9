package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/XclusivVv/hyprland-video-wallpapers/cmd/cli/config/settings"
)

// ErrConfigInvalid is fatal: the daemon must not start on a malformed or
// missing config.conf.
var ErrConfigInvalid = errors.New("config: invalid configuration")

type AssignmentKind int

const (
	AssignmentNone AssignmentKind = iota
	AssignmentVideo
	AssignmentImage
)

// Assignment is the per-workspace media variant. Video carries the derived
// mpv control socket path so callers never re-derive it.
type Assignment struct {
	Kind       AssignmentKind
	Path       string
	SocketPath string
}

type MapEntry struct {
	WorkspaceID int
	Path        string
}

// Config is the immutable snapshot produced by the installer. Loaded once
// at startup, never mutated afterwards.
type Config struct {
	NumWorkspaces   int
	TempWorkspaceID int
	GapSize         int
	TopGap          int
	VideoMap        []MapEntry
	ImageMap        []MapEntry

	assignments map[int]Assignment
}

// Assignment resolves a workspace's media. Video wins over image when both
// maps name the same id; the loader already warns about that case.
func (c *Config) Assignment(workspaceID int) Assignment {
	if a, ok := c.assignments[workspaceID]; ok {
		return a
	}
	return Assignment{Kind: AssignmentNone}
}

func SocketPathFor(workspaceID int) string {
	return fmt.Sprintf("%s-%d-ipc", settings.SocketBase, workspaceID)
}

func WindowTitleFor(workspaceID int) string {
	return fmt.Sprintf("%s-%d", settings.WindowClass, workspaceID)
}

// Load reads the installer-produced config.conf: bash-sourceable KEY=value
// pairs plus KEY=("a" "b") string arrays.
func Load(logger *slog.Logger, path string) (*Config, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("%w: could not read %s: %v", ErrConfigInvalid, path, err)
	}

	return parse(logger, string(data))
}

func parse(logger *slog.Logger, content string) (*Config, error) {
	values := make(map[string]string)
	arrays := make(map[string][]string)

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rest, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		rest = strings.TrimSpace(rest)

		if strings.HasPrefix(rest, "(") && strings.HasSuffix(rest, ")") {
			arrays[key] = parseArray(rest)
		} else {
			values[key] = strings.Trim(rest, `"'`)
		}
	}

	cfg := &Config{}

	var err error
	if cfg.NumWorkspaces, err = requireInt(values, "NUM_WORKSPACES"); err != nil {
		return nil, err
	}
	if cfg.TempWorkspaceID, err = requireInt(values, "TEMP_WORKSPACE_ID"); err != nil {
		return nil, err
	}
	if cfg.GapSize, err = requireInt(values, "GAP_SIZE"); err != nil {
		return nil, err
	}
	if cfg.TopGap, err = requireInt(values, "TOP_GAP"); err != nil {
		return nil, err
	}

	if cfg.NumWorkspaces <= 0 {
		return nil, fmt.Errorf("%w: NUM_WORKSPACES must be positive, got %d", ErrConfigInvalid, cfg.NumWorkspaces)
	}

	if cfg.VideoMap, err = parseMap(arrays["VIDEO_MAP"], "VIDEO_MAP"); err != nil {
		return nil, err
	}
	if cfg.ImageMap, err = parseMap(arrays["IMAGE_MAP"], "IMAGE_MAP"); err != nil {
		return nil, err
	}

	cfg.assignments = buildAssignments(logger, cfg.VideoMap, cfg.ImageMap)

	return cfg, nil
}

// parseArray tokenizes a bash array literal. Entries are usually quoted
// because media paths may contain spaces.
func parseArray(raw string) []string {
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "("), ")")

	var entries []string
	var current strings.Builder
	var quote rune
	inToken := false

	flush := func() {
		if inToken {
			entries = append(entries, current.String())
			current.Reset()
			inToken = false
		}
	}

	for _, r := range raw {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			flush()
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	flush()

	return entries
}

func parseMap(raw []string, key string) ([]MapEntry, error) {
	entries := make([]MapEntry, 0, len(raw))

	for _, entry := range raw {
		idPart, path, found := strings.Cut(entry, ":")
		if !found || path == "" {
			return nil, fmt.Errorf("%w: %s entry %q is not <workspaceId>:<path>", ErrConfigInvalid, key, entry)
		}

		id, err := strconv.Atoi(idPart)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %s entry %q has invalid workspace id", ErrConfigInvalid, key, entry)
		}

		entries = append(entries, MapEntry{WorkspaceID: id, Path: path})
	}

	return entries, nil
}

func buildAssignments(logger *slog.Logger, videoMap, imageMap []MapEntry) map[int]Assignment {
	assignments := make(map[int]Assignment, len(videoMap)+len(imageMap))

	for _, entry := range videoMap {
		assignments[entry.WorkspaceID] = Assignment{
			Kind:       AssignmentVideo,
			Path:       entry.Path,
			SocketPath: SocketPathFor(entry.WorkspaceID),
		}
	}

	for _, entry := range imageMap {
		if existing, ok := assignments[entry.WorkspaceID]; ok && existing.Kind == AssignmentVideo {
			// Exclusive assignment violated by the installer; video wins.
			logger.Warn("config: workspace mapped to both video and image, video wins",
				slog.Int("workspace", entry.WorkspaceID),
				slog.String("image", entry.Path))
			continue
		}
		assignments[entry.WorkspaceID] = Assignment{
			Kind: AssignmentImage,
			Path: entry.Path,
		}
	}

	return assignments
}

func requireInt(values map[string]string, key string) (int, error) {
	raw, ok := values[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing required key %s", ErrConfigInvalid, key)
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: key %s is not an integer: %q", ErrConfigInvalid, key, raw)
	}

	return value, nil
}
