package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/session"
	"github.com/l10n-tools/bundle-helper/suggest"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type suggestCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Lang   string
		Apply  bool
	}
}

func (v *suggestCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "suggest --lang <lang> <key>",
		Short: "Suggest a machine translation for a key",
		Long: `Ask Google translate, or the endpoint configured in suggest.endpoint,
for a translation of a key into a language.

The text to translate is the first non-blank translation of the key in
another language of the bundle, or the key itself turned into English
words. With --apply the suggestion is written into the language file.
Press Ctrl-C to cancel a slow request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.Flags().StringVarP(&v.O.Bundle, "bundle", "b", "", "bundle of the key")
	v.cmd.Flags().StringVarP(&v.O.Lang, "lang", "l", "", "target language")
	v.cmd.Flags().BoolVar(&v.O.Apply, "apply", false, "write the suggestion into the language file")

	return v.cmd
}

func (v suggestCommand) Execute(args []string) error {
	if len(args) != 1 {
		return newUserError("suggest requires exactly one argument: <key>")
	}
	if v.O.Lang == "" {
		return newUserError("--lang is required")
	}
	ws, err := loadWorkspace()
	if err != nil {
		return err
	}
	b, err := ws.Bundle(v.O.Bundle)
	if err != nil {
		return err
	}
	f := b.Sibling(v.O.Lang)
	if f == nil {
		return fmt.Errorf("%w: no %s file in bundle %s", bundle.ErrNotFound, v.O.Lang, b.BaseName)
	}

	m := ws.Model()
	m.Select(session.Selection{Key: args[0], File: f.Path(), Owner: b.Owner})
	m.SetLanguage(v.O.Lang)

	task := &suggest.Task{}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		task.Cancel()
	}()

	text, err := m.Suggest(ctx, ws.SuggestService(), task)
	if err != nil {
		return err
	}
	fmt.Println(text)

	if v.O.Apply {
		if err := m.UpdateTranslation(v.O.Lang, text); err != nil {
			return err
		}
		log.WithField("file", f.Path()).Infof("set %s", m.SelectedKey())
	}
	return nil
}

var suggestCmd = suggestCommand{}

func init() {
	rootCmd.AddCommand(suggestCmd.Command())
}
