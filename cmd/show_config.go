package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l10n-tools/bundle-helper/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newShowConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-config",
		Short: "Show the current configuration in YAML format",
		Long: `Display the merged configuration in YAML format.

The configuration is read from, in increasing priority:
- built-in defaults
- the user config file: <user-config-dir>/config.yaml
- the project config file: <project-root>/bundle-helper.yaml
- the file given by --config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return NewErrorWithUsage("show-config command needs no arguments")
			}
			cfg, root, err := loadConfig()
			if err != nil {
				return err
			}
			yamlData, err := yaml.Marshal(cfg)
			if err != nil {
				return NewStandardErrorF("failed to marshal config: %v", err)
			}
			fmt.Println("# bundle-helper configuration (merged)")
			fmt.Printf("# - User config: %s\n", filepath.Join(config.UserConfigDir(), config.UserConfigFile))
			fmt.Printf("# - Project config: %s\n", filepath.Join(root, config.RepoConfigFile))
			fmt.Println()
			_, _ = os.Stdout.Write(yamlData)
			return nil
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(newShowConfigCmd())
}
