package cmd

import (
	"fmt"
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/flag"
	"github.com/l10n-tools/bundle-helper/util"
	"github.com/spf13/cobra"
)

type statCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Source string
	}
}

func (v *statCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "stat",
		Short: "Report translation statistics of bundles",
		Long: `Report, for every language of a bundle, how the keys of the source
language are translated:
  translated - keys with a text differing from the source
  missing    - keys absent from the language file
  blank      - keys with an empty text
  same       - keys with the source text (suspect untranslated)

Without --bundle every bundle of the module is reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "report only this bundle")
	v.cmd.Flags().StringVar(&v.O.Source, "source", "", "source language (default: default_language from config)")

	return v.cmd
}

func (v statCommand) Execute(args []string) error {
	if len(args) != 0 {
		return newUserError("stat command needs no arguments")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	bundles := ws.Scope.Local()
	if v.O.Bundle != "" {
		b, err := ws.Bundle(v.O.Bundle)
		if err != nil {
			return err
		}
		bundles = []*bundle.Bundle{b}
	}

	source := ws.Language(v.O.Source)
	for _, b := range bundles {
		if b.Sibling(source) == nil {
			continue
		}
		result, err := util.CountBundleStats(b, source)
		if err != nil {
			return err
		}
		for _, stats := range result {
			if flag.Verbose() > 0 {
				title := fmt.Sprintf("Bundle: %s (%s)", stats.Bundle, stats.Language)
				fmt.Println(title)
				fmt.Println(strings.Repeat("-", len(title)))
				fmt.Printf("  translated: %d\n", stats.Translated)
				fmt.Printf("  missing:    %d\n", stats.Missing)
				fmt.Printf("  blank:      %d\n", stats.Blank)
				fmt.Printf("  same:       %d\n", stats.Same)
			} else {
				fmt.Printf("%s\t%s\t%s", stats.Bundle, stats.Language, util.FormatStatLine(stats))
			}
		}
	}
	return nil
}

var statCmd = statCommand{}

func init() {
	rootCmd.AddCommand(statCmd.Command())
}
