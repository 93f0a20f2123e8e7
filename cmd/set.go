package cmd

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type setCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Lang   string
	}
}

func (v *setCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set the translation of a key in one language",
		Long: `Set the translation of a key in the language file of a bundle.

Every entry of the key in the file is updated. A missing key is inserted
at its sorted position. The value is written escaped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "bundle to change")
	v.cmd.Flags().StringVarP(&v.O.Lang, "lang", "l", "", "language (default: default_language from config)")

	return v.cmd
}

func (v setCommand) Execute(args []string) error {
	if len(args) != 2 {
		return newUserError("set requires exactly two arguments: <key> <value>")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	b, err := ws.Bundle(v.O.Bundle)
	if err != nil {
		return err
	}
	lang := ws.Language(v.O.Lang)
	f := b.Sibling(lang)
	if f == nil {
		return fmt.Errorf("%w: no %s file in bundle %s", bundle.ErrNotFound, lang, b.BaseName)
	}
	if err := keys.Update(f, args[0], args[1]); err != nil {
		return err
	}
	log.WithField("file", f.Path()).Infof("set %s", args[0])
	return nil
}

var setCmd = setCommand{}

func init() {
	rootCmd.AddCommand(setCmd.Command())
}
