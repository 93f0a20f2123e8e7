package cmd

import (
	"github.com/l10n-tools/bundle-helper/keys"
	"github.com/l10n-tools/bundle-helper/util"
	"github.com/spf13/cobra"
)

// keyEditCommand is a command changing one key in every file of a bundle.
type keyEditCommand struct {
	cmd   *cobra.Command
	use   string
	short string
	long  string
	nargs int
	run   func(ws *workspace, v *keyEditCommand, args []string) (*keys.Result, error)
	O     struct {
		Bundle string
		To     string
		Suffix string
	}
}

func (v *keyEditCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   v.use,
		Short: v.short,
		Long:  v.long,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "bundle to change")

	return v.cmd
}

func (v *keyEditCommand) Execute(args []string) error {
	if len(args) != v.nargs {
		return newUserErrorF("%s requires exactly %d argument(s)", v.cmd.Name(), v.nargs)
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	res, err := v.run(ws, v, args)
	if err != nil {
		return err
	}
	util.ReportResult(res)
	return res.Err()
}

var createCmd = keyEditCommand{
	use:   "create <key>",
	short: "Add a key to every file of a bundle",
	long: `Add a key with an empty value to every file of a bundle that lacks it.
The key is inserted at its sorted position.`,
	nargs: 1,
	run: func(ws *workspace, v *keyEditCommand, args []string) (*keys.Result, error) {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return nil, err
		}
		return keys.Create(b, args[0]), nil
	},
}

var renameCmd = keyEditCommand{
	use:   "rename <old-key> <new-key>",
	short: "Rename a key in every file of a bundle",
	nargs: 2,
	run: func(ws *workspace, v *keyEditCommand, args []string) (*keys.Result, error) {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return nil, err
		}
		return keys.Rename(b, args[0], args[1]), nil
	},
}

var deleteCmd = keyEditCommand{
	use:   "delete <key>",
	short: "Remove a key from every file of a bundle",
	nargs: 1,
	run: func(ws *workspace, v *keyEditCommand, args []string) (*keys.Result, error) {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return nil, err
		}
		return keys.Delete(b, args[0]), nil
	},
}

var duplicateCmd = keyEditCommand{
	use:   "duplicate <key>",
	short: "Copy the translations of a key",
	long: `Copy the translations of a key into another bundle, or within the
bundle under the key with a suffix appended.`,
	nargs: 1,
	run: func(ws *workspace, v *keyEditCommand, args []string) (*keys.Result, error) {
		source, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return nil, err
		}
		target := source
		if v.O.To != "" {
			if target, err = ws.Bundle(v.O.To); err != nil {
				return nil, err
			}
		}
		suffix := v.O.Suffix
		if suffix == "" {
			suffix = ws.Config.DuplicateSuffix
		}
		_, res := keys.Duplicate(source, target, args[0], suffix)
		return res, nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd.Command())
	rootCmd.AddCommand(renameCmd.Command())
	rootCmd.AddCommand(deleteCmd.Command())

	cmd := duplicateCmd.Command()
	cmd.Flags().StringVar(&duplicateCmd.O.To, "to", "", "target bundle (default: the same bundle)")
	cmd.Flags().StringVar(&duplicateCmd.O.Suffix, "suffix", "", "suffix of the copy within the same bundle (default: duplicate_suffix from config)")
	rootCmd.AddCommand(cmd)
}
