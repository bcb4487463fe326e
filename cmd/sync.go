package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mhartig/fansync/pkg/buildinfo"
	"github.com/mhartig/fansync/pkg/config"
	"github.com/mhartig/fansync/pkg/engine"
	"github.com/mhartig/fansync/pkg/extfilter"
	"github.com/mhartig/fansync/pkg/hook"
	"github.com/mhartig/fansync/pkg/reachability"
	"github.com/mhartig/fansync/pkg/runlock"
	"github.com/mhartig/fansync/pkg/treesync"
)

func newSyncCommand() *cobra.Command {
	syncCommand := &cobra.Command{
		Use:           "sync",
		Short:         "mirror the source tree into the configured destinations",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return err
			}

			settings := config.SettingsFromViper(v)
			if err := resolveDataFiles(&settings); err != nil {
				return err
			}
			if err := settings.Validate(true); err != nil {
				return err
			}

			log, closeLog, err := newLogger(v, settings)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := closeLog(); cerr != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "failed to close log file:", cerr)
				}
			}()

			destinations, err := config.LoadDestinations(settings.DestinationsFile)
			if err != nil {
				return err
			}
			if len(destinations) == 0 {
				return fmt.Errorf("no destinations configured, add one with '%s destinations add'", cmd.Root().Name())
			}
			selected, err := config.SelectDestinations(destinations, v.GetStringSlice(flagDest))
			if err != nil {
				return err
			}

			suffixes, err := config.LoadIgnoreList(settings.IgnoreFile)
			if err != nil {
				return err
			}

			// One run per data directory at a time. Two concurrent runs
			// would race on the same destination trees.
			lockPath := filepath.Join(filepath.Dir(settings.DestinationsFile), buildinfo.Name+".lock")
			lock, err := runlock.Acquire(cmd.Context(), log, lockPath, buildinfo.Name, 30*time.Second)
			if err != nil {
				return err
			}
			defer lock.Release()

			hooks := hook.NewExecutor(log)
			if err := hooks.RunAll(cmd.Context(), "pre-sync", v.GetStringSlice(flagPreSyncHook), settings.DryRun); err != nil {
				return err
			}

			checker := reachability.NewChecker(log, reachability.NewTerminalPrompter(), reachability.NewKeyringStore())
			syncer := treesync.NewDestinationSyncer(log, treesync.Options{
				ModTimeWindow: time.Duration(settings.ModTimeWindowSeconds) * time.Second,
				BufferSizeKB:  settings.BufferSizeKB,
				DryRun:        settings.DryRun,
			})
			runner := engine.NewRunner(log, checker, syncer, engine.Options{Parallel: settings.Parallel})

			report, err := runner.Run(cmd.Context(), settings.Source, selected,
				extfilter.New(suffixes), consoleReporters(settings.Parallel))
			if err != nil {
				return err
			}

			if err := hooks.RunAll(cmd.Context(), "post-sync", v.GetStringSlice(flagPostSyncHook), settings.DryRun); err != nil {
				return err
			}
			if report.Failed() {
				return errors.New("sync finished with errors, see the log for details")
			}
			return nil
		},
	}

	initSyncFlags(syncCommand.Flags())
	return syncCommand
}

func initSyncFlags(flags *pflag.FlagSet) {
	flags.String(flagSource, "", "Source directory to mirror (required)")
	flags.StringSlice(flagDest, nil, "Destination names to sync, defaults to all")
	flags.Bool(flagDryRun, false, "Show what would be copied without writing anything")
	flags.Int(flagParallel, 1, "Maximum number of destinations synced at once")
	flags.Int(flagModTimeWindow, 1, "Time window in seconds to consider file modification times equal (0=exact)")
	flags.Int(flagBufferSizeKB, 256, "Size of the I/O buffer in kilobytes for file copies")
	flags.StringSlice(flagPreSyncHook, nil, "Commands to run before the sync starts")
	flags.StringSlice(flagPostSyncHook, nil, "Commands to run after the sync finished")
}
