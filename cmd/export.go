package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/table"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type exportCommand struct {
	cmd *cobra.Command
	O   struct {
		Bundle string
		Source string
		Target string
		Format string
		Output string
	}
}

func (v *exportCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "export --target <lang> [-o <file>]",
		Short: "Export a bundle as a CSV or XLIFF translation table",
		Long: `Export one row per key of the source language file: key, source
text and target text. Missing targets are exported as
"` + table.TranslationNeeded + `".

The format is taken from the extension of --output (.csv, .xliff, .xlf),
or from --format when writing to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	addTableFlags(v.cmd, &v.O.Bundle, &v.O.Source, &v.O.Target)
	v.cmd.Flags().StringVarP(&v.O.Output, "output", "o", "-", "output file, '-' for stdout")
	v.cmd.Flags().StringVar(&v.O.Format, "format", "csv", "format for stdout: 'csv' or 'xliff'")
	setFlagGroup(v.cmd, "Output options", "output", "format")

	return v.cmd
}

// addTableFlags adds the flags selecting a bundle and a language pair.
func addTableFlags(cmd *cobra.Command, bundleName, source, target *string) {
	cmd.Flags().StringVarP(bundleName, "bundle", "b", "", "bundle to exchange")
	cmd.Flags().StringVar(source, "source", "", "source language (default: default_language from config)")
	cmd.Flags().StringVar(target, "target", "", "target language")
	setFlagGroup(cmd, "Table options", "bundle", "source", "target")
}

func formatOf(path, name string) (table.Format, error) {
	if path != "" && path != "-" {
		return table.FormatFromPath(path)
	}
	return table.FormatFromPath("stdout." + name)
}

// exportTo runs export on wc and closes it. A failed close fails the
// export.
func exportTo(wc io.WriteCloser, export func(io.Writer) error) error {
	err := export(wc)
	if cerr := wc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("%w: %v", bundle.ErrIO, cerr)
	}
	return err
}

func (v exportCommand) Execute(args []string) error {
	if len(args) != 0 {
		return newUserError("export command needs no arguments")
	}
	if v.O.Target == "" {
		return newUserError("--target is required")
	}
	format, err := formatOf(v.O.Output, v.O.Format)
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

	export := func(w io.Writer) error { return t.Export(w, format) }
	if v.O.Output == "" || v.O.Output == "-" {
		err = export(os.Stdout)
	} else {
		f, cerr := os.Create(v.O.Output)
		if cerr != nil {
			return NewStandardErrorF("failed to create output file %s: %v", v.O.Output, cerr)
		}
		err = exportTo(f, export)
	}
	if err != nil {
		return err
	}
	log.Infof("exported %d rows of %s (%s to %s) as %s", t.Len(), b.BaseName, t.SourceLang, t.TargetLang, format)
	return nil
}

var exportCmd = exportCommand{}

func init() {
	rootCmd.AddCommand(exportCmd.Command())
}
