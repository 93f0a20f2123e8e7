package cmd

import (
	"fmt"
	"os"

	"github.com/l10n-tools/bundle-helper/table"
	"github.com/l10n-tools/bundle-helper/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type importCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Source string
		Target string
		Yes    bool
	}
}

func (v *importCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "import --target <lang> <file>",
		Short: "Import a CSV or XLIFF translation table into a bundle",
		Long: `Read a table written by export, show the changed rows and write
them into the bundle: new targets go to the target language file, changed
keys are renamed in every file of the bundle.

The document is validated first: every key must exist in the bundle and
each row must be translated exactly once. An XLIFF document must also name
the target language. Nothing is written on a validation error.
In interactive mode the changed rows are confirmed before writing, unless
--yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	addTableFlags(v.cmd, &v.O.Bundle, &v.O.Source, &v.O.Target)
	v.cmd.Flags().BoolVarP(&v.O.Yes, "yes", "y", false, "write without asking")

	return v.cmd
}

func (v importCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("import requires exactly one argument: <file>")
	}
	if v.O.Target == "" {
		return newUserError("--target is required")
	}
	format, err := table.FormatFromPath(args[0])
	if err != nil {
		return newUserError(err)
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	b, err := ws.Bundle(v.O.Bundle)
	if err != nil {
		return err
	}
	t, err := table.Build(b, ws.Language(v.O.Source), v.O.Target)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return NewStandardErrorF("failed to open %s: %v", args[0], err)
	}
	defer f.Close()
	pending, err := t.Import(f, format)
	if err != nil {
		return err
	}

	changes, err := t.Apply(pending)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		log.Info("nothing changed")
		return nil
	}
	for _, c := range changes {
		if c.KeyChanged() {
			fmt.Printf("key:    %s -> %s\n", c.OldKey, c.NewKey)
		}
		if c.TargetChanged() {
			fmt.Printf("value:  %s: %q -> %q\n", c.NewKey, c.OldTarget, c.NewTarget)
		}
	}

	if util.Interactive() && !v.O.Yes {
		answer := util.GetUserInput(fmt.Sprintf("Write %d change(s) into %s? [y/N] ", len(changes), b.BaseName), "n")
		if !util.AnswerIsTrue(answer) {
			log.Info("import discarded")
			return nil
		}
	}

	res, err := table.Persist(b, t.TargetLang, changes)
	if err != nil {
		return err
	}
	util.ReportResult(res)
	return res.Err()
}

var importCmd = importCommand{}

func init() {
	rootCmd.AddCommand(importCmd.Command())
}
