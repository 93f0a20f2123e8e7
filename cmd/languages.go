package cmd

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type languagesCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
	}
}

func (v *languagesCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "languages",
		Short: "List the languages of the bundles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "only list the languages of this bundle")

	return v.cmd
}

func (v languagesCommand) Execute(args []string) error {
	if len(args) != 0 {
		return newUserError("languages command needs no arguments")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	var langs []string
	if v.O.Bundle != "" {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return err
		}
		langs = b.Languages()
	} else {
		for _, f := range ws.Scope.Files() {
			if f.Language() != "" {
				langs = append(langs, f.Language())
			}
		}
		langs = bundle.OrderLanguages(lo.Uniq(langs))
	}
	for _, lang := range langs {
		fmt.Printf("%s\t%s\n", lang, bundle.DisplayName(lang))
	}
	return nil
}

var languagesCmd = languagesCommand{}

func init() {
	rootCmd.AddCommand(languagesCmd.Command())
}
