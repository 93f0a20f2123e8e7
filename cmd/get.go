package cmd

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	"github.com/spf13/cobra"
)

type getCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Lang   string
		All    bool
	}
}

func (v *getCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "get <key>",
		Short: "Show the translation of a key",
		Long: `Show the translation of a key in one language.

Without --bundle every file of the language in scope is searched. When no
file holds the key, the key without its first segment is tried, e.g.
"dialog.button.ok" falls back to "button.ok" and then "ok".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "search only this bundle")
	v.cmd.Flags().StringVarP(&v.O.Lang, "lang", "l", "", "language (default: default_language from config)")
	v.cmd.Flags().BoolVar(&v.O.All, "all", false, "show the key in every language of the bundle")

	return v.cmd
}

func (v getCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("get requires exactly one argument: <key>")
	}
	key := args[0]
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	if v.O.All {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return err
		}
		for _, lang := range b.Languages() {
			if value, ok := keys.Lookup(b.Sibling(lang), key); ok {
				fmt.Printf("%s\t%s\n", lang, value)
			} else {
				fmt.Printf("%s\t<missing>\n", lang)
			}
		}
		return nil
	}

	lang := ws.Language(v.O.Lang)
	var (
		value string
		ok    bool
	)
	if v.O.Bundle != "" {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return err
		}
		value, ok = keys.ResolveInBundle(b, key, lang)
	} else {
		value, ok = keys.ResolveIn(ws.Scope, key, lang)
	}
	if !ok {
		return fmt.Errorf("%w: key %s in language %s", bundle.ErrNotFound, key, lang)
	}
	fmt.Println(value)
	return nil
}

var getCmd = getCommand{}

func init() {
	rootCmd.AddCommand(getCmd.Command())
}
