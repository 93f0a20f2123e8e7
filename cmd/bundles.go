package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type bundlesCommand struct {
	cmd *cobra.Command
	O   struct {
		Local bool
		Files bool
	}
}

func (v *bundlesCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "bundles",
		Short: "List resource bundles",
		Long: `List the resource bundles visible from the module: bundles of the
module first, then bundles of other modules and archives.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().BoolVar(&v.O.Local, "local", false, "only list bundles of the module")
	v.cmd.Flags().BoolVar(&v.O.Files, "files", false, "list the files of each bundle")

	return v.cmd
}

func (v bundlesCommand) Execute(args []string) error {
	if len(args) != 0 {
		return newUserError("bundles command needs no arguments")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	bundles := ws.Scope.Bundles()
	if v.O.Local {
		bundles = ws.Scope.Local()
	}
	for _, b := range bundles {
		fmt.Printf("%s\t%s\t%s\n", b.Owner, b.BaseName, strings.Join(b.Languages(), ","))
		if !v.O.Files {
			continue
		}
		for _, f := range b.Files {
			mode := "rw"
			if !f.Writable() {
				mode = "ro"
			}
			fmt.Printf("\t%s\t%s\n", mode, f.Path())
		}
	}
	return nil
}

var bundlesCmd = bundlesCommand{}

func init() {
	rootCmd.AddCommand(bundlesCmd.Command())
}
