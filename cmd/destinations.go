package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/fansync/pkg/config"
)

func newDestinationsCommand() *cobra.Command {
	destinationsCommand := &cobra.Command{
		Use:           "destinations",
		Short:         "manage the destination list",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	destinationsCommand.AddCommand(
		newDestinationsListCommand(),
		newDestinationsAddCommand(),
		newDestinationsRemoveCommand(),
	)
	return destinationsCommand
}

// destinationsFilePath resolves the destination list document for a
// subcommand invocation.
func destinationsFilePath(cmd *cobra.Command) (string, error) {
	v, err := initViper(cmd)
	if err != nil {
		return "", err
	}
	settings := config.SettingsFromViper(v)
	if err := resolveDataFiles(&settings); err != nil {
		return "", err
	}
	return settings.DestinationsFile, nil
}

func newDestinationsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "show the configured destinations",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := destinationsFilePath(cmd)
			if err != nil {
				return err
			}
			destinations, err := config.LoadDestinations(path)
			if err != nil {
				return err
			}
			if len(destinations) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no destinations configured")
				return nil
			}
			for _, d := range destinations {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-6s %s\n", d.Name, d.Type, d.Path)
			}
			return nil
		},
	}
}

func newDestinationsAddCommand() *cobra.Command {
	addCommand := &cobra.Command{
		Use:           "add <name> <path>",
		Short:         "add a destination",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hostTypeValue, err := cmd.Flags().GetString(flagHostType)
			if err != nil {
				return err
			}
			hostType, err := config.ParseHostType(hostTypeValue)
			if err != nil {
				return err
			}

			path, err := destinationsFilePath(cmd)
			if err != nil {
				return err
			}
			destinations, err := config.LoadDestinations(path)
			if err != nil {
				return err
			}
			destinations, err = config.AddDestination(destinations, config.Destination{
				Name: args[0],
				Path: args[1],
				Type: hostType,
			})
			if err != nil {
				return err
			}
			if err := config.SaveDestinations(path, destinations); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added destination %s\n", args[0])
			return nil
		},
	}
	addCommand.Flags().String(flagHostType, config.HostLocal.String(), "Destination host type: 'local' or 'smb'")
	return addCommand
}

func newDestinationsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "remove <name>",
		Short:         "remove a destination",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := destinationsFilePath(cmd)
			if err != nil {
				return err
			}
			destinations, err := config.LoadDestinations(path)
			if err != nil {
				return err
			}
			destinations, err = config.RemoveDestination(destinations, args[0])
			if err != nil {
				return err
			}
			if err := config.SaveDestinations(path, destinations); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed destination %s\n", args[0])
			return nil
		},
	}
}
