package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const groupAnnotationKey = "group"

// usageTemplate is cobra's default usage template with local flags grouped
// by flagUsagesByGroup.
const usageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{flagUsagesByGroup . | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

// setFlagGroup puts the named flags of cmd under a group header in usage.
func setFlagGroup(cmd *cobra.Command, group string, names ...string) {
	for _, name := range names {
		_ = cmd.Flags().SetAnnotation(name, groupAnnotationKey, []string{group})
	}
}

// flagUsagesByGroup prints the local flags of cmd in sections named by
// their group annotation. Ungrouped flags go to "Other options"; without
// any group the plain flag usage is returned.
func flagUsagesByGroup(cmd *cobra.Command) string {
	fs := cmd.LocalFlags()
	if fs == nil || !cmd.HasAvailableLocalFlags() {
		return ""
	}

	var order []string
	groups := make(map[string]*pflag.FlagSet)
	hasAnyGroup := false
	fs.VisitAll(func(flag *pflag.Flag) {
		group := "Other options"
		if g := flag.Annotations[groupAnnotationKey]; len(g) > 0 {
			group = g[0]
			hasAnyGroup = true
		}
		if _, seen := groups[group]; !seen {
			order = append(order, group)
			groups[group] = pflag.NewFlagSet(group, pflag.ContinueOnError)
		}
		groups[group].AddFlag(flag)
	})
	if !hasAnyGroup {
		return fs.FlagUsages()
	}

	var buf strings.Builder
	for _, group := range order {
		fmt.Fprintf(&buf, "\n%s:\n%s", group, groups[group].FlagUsages())
	}
	return strings.TrimPrefix(buf.String(), "\n")
}

func init() {
	cobra.AddTemplateFunc("flagUsagesByGroup", flagUsagesByGroup)
}
