package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Tunables are policy constants the orchestrator inherited from the shell
// prototype. The cascade band and minimum width have no derivation beyond
// "felt right", so they stay overridable instead of being re-derived.
type Tunables struct {
	PlayerSettle     time.Duration
	PlacementSettle  time.Duration
	PreloadSettle    time.Duration
	BlankSettle      time.Duration
	DaemonSettle     time.Duration
	BackendsSettle   time.Duration
	RestoreSettle    time.Duration
	OpenWindowSettle time.Duration
	CloseRetileDelay time.Duration
	RetilePacing     time.Duration

	CascadeToleranceMin int
	CascadeToleranceMax int
	CascadeMinWidth     int

	ReconnectBaseDelay time.Duration
	ReconnectMaxDelay  time.Duration
	ReconnectAttempts  int
}

// tunablesData is the yaml shape: delays in milliseconds so the file stays
// plain integers.
type tunablesData struct {
	PlayerSettleMs     *int `yaml:"player_settle_ms"`
	PlacementSettleMs  *int `yaml:"placement_settle_ms"`
	PreloadSettleMs    *int `yaml:"preload_settle_ms"`
	BlankSettleMs      *int `yaml:"blank_settle_ms"`
	DaemonSettleMs     *int `yaml:"daemon_settle_ms"`
	BackendsSettleMs   *int `yaml:"backends_settle_ms"`
	RestoreSettleMs    *int `yaml:"restore_settle_ms"`
	OpenWindowSettleMs *int `yaml:"open_window_settle_ms"`
	CloseRetileMs      *int `yaml:"close_retile_delay_ms"`
	RetilePacingMs     *int `yaml:"retile_pacing_ms"`

	CascadeToleranceMin *int `yaml:"cascade_tolerance_min"`
	CascadeToleranceMax *int `yaml:"cascade_tolerance_max"`
	CascadeMinWidth     *int `yaml:"cascade_min_width"`

	ReconnectBaseMs   *int `yaml:"reconnect_base_delay_ms"`
	ReconnectMaxMs    *int `yaml:"reconnect_max_delay_ms"`
	ReconnectAttempts *int `yaml:"reconnect_attempts"`
}

func DefaultTunables() Tunables {
	return Tunables{
		PlayerSettle:     2 * time.Second,
		PlacementSettle:  500 * time.Millisecond,
		PreloadSettle:    300 * time.Millisecond,
		BlankSettle:      100 * time.Millisecond,
		DaemonSettle:     time.Second,
		BackendsSettle:   3 * time.Second,
		RestoreSettle:    time.Second,
		OpenWindowSettle: 300 * time.Millisecond,
		CloseRetileDelay: 100 * time.Millisecond,
		RetilePacing:     200 * time.Millisecond,

		CascadeToleranceMin: -20,
		CascadeToleranceMax: 50,
		CascadeMinWidth:     100,

		ReconnectBaseDelay: time.Second,
		ReconnectMaxDelay:  10 * time.Second,
		ReconnectAttempts:  5,
	}
}

// ReadTunables loads overrides from the optional tunables file. A missing
// file is not an error; defaults apply. Keys absent from the file keep
// their defaults too.
func ReadTunables(path string) (Tunables, error) {
	tunables := DefaultTunables()

	yamlData, err := os.ReadFile(path)

	if err != nil {
		if os.IsNotExist(err) {
			return tunables, nil
		}
		//nolint:errorlint // no wrap
		return tunables, fmt.Errorf("config: could not read tunables file. %v", err)
	}

	var data tunablesData
	err = yaml.Unmarshal(yamlData, &data)

	if err != nil {
		//nolint:errorlint // no wrap
		return tunables, fmt.Errorf("config: could not unmarshal tunables. %v", err)
	}

	applyMs(&tunables.PlayerSettle, data.PlayerSettleMs)
	applyMs(&tunables.PlacementSettle, data.PlacementSettleMs)
	applyMs(&tunables.PreloadSettle, data.PreloadSettleMs)
	applyMs(&tunables.BlankSettle, data.BlankSettleMs)
	applyMs(&tunables.DaemonSettle, data.DaemonSettleMs)
	applyMs(&tunables.BackendsSettle, data.BackendsSettleMs)
	applyMs(&tunables.RestoreSettle, data.RestoreSettleMs)
	applyMs(&tunables.OpenWindowSettle, data.OpenWindowSettleMs)
	applyMs(&tunables.CloseRetileDelay, data.CloseRetileMs)
	applyMs(&tunables.RetilePacing, data.RetilePacingMs)
	applyMs(&tunables.ReconnectBaseDelay, data.ReconnectBaseMs)
	applyMs(&tunables.ReconnectMaxDelay, data.ReconnectMaxMs)

	if data.CascadeToleranceMin != nil {
		tunables.CascadeToleranceMin = *data.CascadeToleranceMin
	}
	if data.CascadeToleranceMax != nil {
		tunables.CascadeToleranceMax = *data.CascadeToleranceMax
	}
	if data.CascadeMinWidth != nil && *data.CascadeMinWidth > 0 {
		tunables.CascadeMinWidth = *data.CascadeMinWidth
	}
	if data.ReconnectAttempts != nil && *data.ReconnectAttempts > 0 {
		tunables.ReconnectAttempts = *data.ReconnectAttempts
	}

	return tunables, nil
}

func applyMs(target *time.Duration, value *int) {
	if value != nil && *value >= 0 {
		*target = time.Duration(*value) * time.Millisecond
	}
}
