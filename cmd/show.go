package cmd

import (
	"fmt"

	"github.com/l10n-tools/bundle-helper/session"
	"github.com/spf13/cobra"
)

type showCommand struct {
	cmd *cobra.Command
	O   struct {
		Origin string
		File   string
		Lang   string
		Scroll int
	}
}

func (v *showCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "show <key-path>",
		Short: "Show how a key path resolves and its translations",
		Long: `Select a key path the way an editor does and show the resolved
language, the selected resource file, the resolved value and the
translations of the selected key in every language of its bundle.

The language is the preferred one from config, else the language of a
writable --origin file, else the default language. --scroll drops leading
segments of the key path, e.g. "dialog.button.ok" with --scroll 1 selects
"button.ok".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVar(&v.O.Origin, "origin", "", "path of the file the key was picked from")
	v.cmd.Flags().StringVar(&v.O.File, "file", "", "select this resource file")
	v.cmd.Flags().StringVarP(&v.O.Lang, "lang", "l", "", "switch to this language after selecting")
	v.cmd.Flags().IntVar(&v.O.Scroll, "scroll", 0, "number of leading key segments to drop")
	setFlagGroup(v.cmd, "Selection options", "origin", "file")
	setFlagGroup(v.cmd, "View options", "lang", "scroll")

	return v.cmd
}

func (v showCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("show requires exactly one argument: <key-path>")
	}
	if v.O.Scroll < 0 {
		return newUserError("--scroll must not be negative")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}

	m := ws.Model()
	m.Select(session.Selection{Key: args[0], Origin: v.O.Origin, File: v.O.File})
	if v.O.Lang != "" {
		m.SetPreferredLanguage(v.O.Lang)
	}
	for i := 0; i < v.O.Scroll; i++ {
		if !m.ScrollRight() {
			break
		}
	}

	fmt.Printf("key path: %s\n", m.KeyPath())
	fmt.Printf("key:      %s\n", m.SelectedKey())
	fmt.Printf("language: %s\n", m.Language())
	if f := m.SelectedFile(); f != nil {
		fmt.Printf("file:     %s\n", f.Path())
	} else {
		fmt.Printf("file:     <none>\n")
	}
	if value, ok := m.Resolved(); ok {
		fmt.Printf("resolved: %s\n", value)
	}
	if !m.HasAtLeastOneTranslation() {
		fmt.Println("no translation found")
		return nil
	}
	fmt.Println()
	for _, t := range m.Translations() {
		value := t.Value
		if !t.Found {
			value = "<missing>"
		}
		fmt.Printf("  %s\t%s\n", t.Language, value)
	}
	return nil
}

var showCmd = showCommand{}

func init() {
	rootCmd.AddCommand(showCmd.Command())
}
