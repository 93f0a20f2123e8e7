package cmd

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return NewErrorWithUsage("version command needs no arguments")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Root().Name(), version.Version)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}
