// Package flag reads global options bound to viper.
package flag

import (
	"github.com/spf13/viper"
)

// Verbose returns option "--verbose".
func Verbose() int {
	return viper.GetInt("verbose")
}

// Quiet returns option "--quiet".
func Quiet() int {
	return viper.GetInt("quiet")
}

// DryRun returns option "--dry-run".
func DryRun() bool {
	return viper.GetBool("dry-run")
}

// Config returns option "--config".
func Config() string {
	return viper.GetString("config")
}

// Root returns option "--root", the directory to scan for bundles.
func Root() string {
	return viper.GetString("root")
}

// Module returns option "--module", the module the scope is built for.
func Module() string {
	return viper.GetString("module")
}
