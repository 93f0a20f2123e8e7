package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-errors/errors"
	"github.com/l10n-tools/bundle-helper/cmd"
	log "github.com/sirupsen/logrus"
)

const (
	// Program is name for this project
	Program = "bundle-helper"
)

func main() {
	resp := cmd.Execute()

	if resp.Err != nil {
		errOut := resp.Cmd.ErrOrStderr()
		if resp.IsUserError() {
			if resp.Cmd.SilenceErrors {
				fmt.Fprintf(errOut, "ERROR: %s\n\n", resp.Err)
			}
			fmt.Fprint(errOut, resp.Cmd.UsageString())
		} else if resp.Cmd.SilenceErrors {
			if log.IsLevelEnabled(log.TraceLevel) {
				log.Trace(errors.Wrap(resp.Err, 0).ErrorStack())
			}
			fmt.Fprintf(errOut, "ERROR: %s\n", resp.Err)
			// Subcommand path without the program name, e.g. "import"
			subCmdPath := strings.TrimPrefix(resp.Cmd.CommandPath(), Program+" ")
			if subCmdPath == "" {
				subCmdPath = resp.Cmd.Name()
			}
			fmt.Fprintf(errOut, "ERROR: fail to execute \"%s %s\"\n", Program, subCmdPath)
		}
		os.Exit(-1)
	}
}
