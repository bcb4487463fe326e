// Package cmd wires the command-line interface. Flags are resolved through
// viper so every option can also be set via FANSYNC_* environment variables.
package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mhartig/fansync/pkg/buildinfo"
	"github.com/mhartig/fansync/pkg/config"
	"github.com/mhartig/fansync/pkg/logging"
)

// Global flags
const (
	flagLogLevel         = "log-level"
	flagLogFile          = "log-file"
	flagNoColor          = "no-color"
	flagDestinationsFile = "destinations-file"
	flagIgnoreFile       = "ignore-file"
)

// Sync flags
const (
	flagSource        = "source"
	flagDest          = "dest"
	flagDryRun        = "dry-run"
	flagParallel      = "parallel"
	flagModTimeWindow = "mod-time-window"
	flagBufferSizeKB  = "buffer-size-kb"
	flagPreSyncHook   = "pre-sync-hook"
	flagPostSyncHook  = "post-sync-hook"
)

// Destination flags
const (
	flagHostType = "type"
)

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           buildinfo.Name,
		Short:         "mirror one directory tree into many destinations",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := rootCommand.PersistentFlags()
	flags.String(flagLogLevel, "info", "Log level: 'debug', 'info', 'warn' or 'error'")
	flags.String(flagLogFile, "", "Also append logs to this file")
	flags.Bool(flagNoColor, false, "Disable colored console output")
	flags.String(flagDestinationsFile, "", "Path of the destination list document")
	flags.String(flagIgnoreFile, "", "Path of the ignored extension list document")

	rootCommand.AddCommand(
		newSyncCommand(),
		newDestinationsCommand(),
		newIgnoresCommand(),
		newVersionCommand(),
	)
	return rootCommand
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvPrefix(strings.ToUpper(buildinfo.Name))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v, nil
}

// resolveDataFiles fills in the default locations of the two list documents
// when they were not set explicitly.
func resolveDataFiles(settings *config.Settings) error {
	if settings.DestinationsFile != "" && settings.IgnoreFile != "" {
		return nil
	}
	dataDir, err := config.DefaultDataDir()
	if err != nil {
		return err
	}
	if settings.DestinationsFile == "" {
		settings.DestinationsFile = filepath.Join(dataDir, config.DestinationsFileName)
	}
	if settings.IgnoreFile == "" {
		settings.IgnoreFile = filepath.Join(dataDir, config.IgnoreFileName)
	}
	return nil
}

func newLogger(v *viper.Viper, settings config.Settings) (zerolog.Logger, func() error, error) {
	return logging.New(logging.Options{
		Level:   settings.LogLevel,
		File:    settings.LogFile,
		NoColor: v.GetBool(flagNoColor),
	})
}
