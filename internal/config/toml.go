// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Review ReviewConfig `toml:"review"`
	Stats  StatsConfig  `toml:"stats"`
	Log    LogConfig    `toml:"log"`
}

// ReviewConfig maps review-related settings.
type ReviewConfig struct {
	Deck           *string `toml:"deck"`
	User           *string `toml:"user"`
	Shuffle        *bool   `toml:"shuffle"`
	Training       *bool   `toml:"training"`
	Match          *string `toml:"match"`
	AdvanceDelayMs *int    `toml:"advance-delay-ms"`
	FocusWeak      *bool   `toml:"focus-weak"`
	WeakTop        *int    `toml:"weak-top"`
}

// StatsConfig maps stats-related settings.
type StatsConfig struct {
	Last            *int  `toml:"last"`
	CurveWindow     *int  `toml:"curve-window"`
	IncludeTraining *bool `toml:"include-training"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
