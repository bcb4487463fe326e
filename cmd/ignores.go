package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/fansync/pkg/config"
)

func newIgnoresCommand() *cobra.Command {
	ignoresCommand := &cobra.Command{
		Use:           "ignores",
		Short:         "manage the ignored extension list",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	ignoresCommand.AddCommand(
		newIgnoresListCommand(),
		newIgnoresAddCommand(),
		newIgnoresRemoveCommand(),
	)
	return ignoresCommand
}

func ignoreFilePath(cmd *cobra.Command) (string, error) {
	v, err := initViper(cmd)
	if err != nil {
		return "", err
	}
	settings := config.SettingsFromViper(v)
	if err := resolveDataFiles(&settings); err != nil {
		return "", err
	}
	return settings.IgnoreFile, nil
}

func newIgnoresListCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "show the ignored extensions",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ignoreFilePath(cmd)
			if err != nil {
				return err
			}
			suffixes, err := config.LoadIgnoreList(path)
			if err != nil {
				return err
			}
			if len(suffixes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no extensions ignored")
				return nil
			}
			for _, s := range suffixes {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newIgnoresAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "add <extension>",
		Short:         "ignore an extension, e.g. '.tmp'",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ignoreFilePath(cmd)
			if err != nil {
				return err
			}
			suffixes, err := config.LoadIgnoreList(path)
			if err != nil {
				return err
			}
			suffixes, err = config.AddIgnoreSuffix(suffixes, args[0])
			if err != nil {
				return err
			}
			if err := config.SaveIgnoreList(path, suffixes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ignoring %s\n", config.NormalizeSuffix(args[0]))
			return nil
		},
	}
}

func newIgnoresRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "remove <extension>",
		Short:         "stop ignoring an extension",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ignoreFilePath(cmd)
			if err != nil {
				return err
			}
			suffixes, err := config.LoadIgnoreList(path)
			if err != nil {
				return err
			}
			suffixes, err = config.RemoveIgnoreSuffix(suffixes, args[0])
			if err != nil {
				return err
			}
			if err := config.SaveIgnoreList(path, suffixes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "no longer ignoring %s\n", config.NormalizeSuffix(args[0]))
			return nil
		},
	}
}
