package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhartig/fansync/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "version",
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", buildinfo.Name, buildinfo.Version)
			return nil
		},
	}
}
