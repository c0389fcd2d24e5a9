package settings

import (
	"os"
	"path/filepath"
)

// Fixed names shared with the installer; the installer writes these files,
// the daemon only ever reads or regenerates them.
const (
	ConfigDirName        = "hyprland-video-wallpapers"
	ConfigFileName       = "config.conf"
	TunablesFileName     = "tunables.yaml"
	TogglefloatConfName  = "togglefloating.conf"
	TogglefloatBindsName = "togglefloating_binds.txt"
)

const PidFilePath = "/tmp/hyprland-video-wallpapers.pid"

// MPV identity: socket paths and window titles are derived from these so a
// later run (or the uninstaller) can find instances from a previous one.
const (
	SocketBase     = "/tmp/mpv-ws"
	WindowClass    = "mpv-workspace-video"
	BlankImagePath = "/tmp/hyprpaper_blank.png"
)

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", ConfigDirName), nil
}

func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func TunablesFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TunablesFileName), nil
}

func TogglefloatConfPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TogglefloatConfName), nil
}

func TogglefloatBindsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TogglefloatBindsName), nil
}
