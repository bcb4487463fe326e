package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mhartig/fansync/pkg/util"
)

// Settings holds the per-run engine options. They come from command-line
// flags merged over an optional config file, resolved through viper before a
// run starts.
type Settings struct {
	Source               string
	LogLevel             string
	LogFile              string
	DryRun               bool
	Parallel             int
	ModTimeWindowSeconds int
	BufferSizeKB         int
	DestinationsFile     string
	IgnoreFile           string
}

// SettingsFromViper extracts the run settings from a resolved viper instance.
func SettingsFromViper(v *viper.Viper) Settings {
	return Settings{
		Source:               v.GetString("source"),
		LogLevel:             v.GetString("log-level"),
		LogFile:              v.GetString("log-file"),
		DryRun:               v.GetBool("dry-run"),
		Parallel:             v.GetInt("parallel"),
		ModTimeWindowSeconds: v.GetInt("mod-time-window"),
		BufferSizeKB:         v.GetInt("buffer-size-kb"),
		DestinationsFile:     v.GetString("destinations-file"),
		IgnoreFile:           v.GetString("ignore-file"),
	}
}

// DefaultDataDir returns the directory holding the destination and ignore
// list documents plus the default log file, creating it if necessary.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".fansync")
	if err := os.MkdirAll(dir, util.UserWritableDirPerms); err != nil {
		return "", fmt.Errorf("could not create data directory %s: %w", dir, err)
	}
	return dir, nil
}

// Validate checks the settings for logical errors. When checkSource is true,
// the source path must be set, exist, and be a directory.
func (s *Settings) Validate(checkSource bool) error {
	if checkSource {
		if s.Source == "" {
			return fmt.Errorf("source path cannot be empty")
		}

		expanded, err := util.ExpandPath(s.Source)
		if err != nil {
			return fmt.Errorf("could not expand source path: %w", err)
		}
		s.Source = filepath.Clean(expanded)

		info, err := os.Stat(s.Source)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("source path '%s' does not exist", s.Source)
			}
			return fmt.Errorf("cannot stat source path '%s': %w", s.Source, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source path '%s' is not a directory", s.Source)
		}
	}

	if s.Parallel < 0 {
		return fmt.Errorf("parallel must be >= 0, got %d", s.Parallel)
	}
	if s.ModTimeWindowSeconds < 0 {
		return fmt.Errorf("mod-time-window must be >= 0, got %d", s.ModTimeWindowSeconds)
	}
	if s.BufferSizeKB <= 0 {
		return fmt.Errorf("buffer-size-kb must be > 0, got %d", s.BufferSizeKB)
	}
	return nil
}
