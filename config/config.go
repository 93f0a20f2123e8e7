// Package config provides configuration structures and loading for
// bundle-helper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/OpenPeeDeeP/xdg"
	"github.com/imdario/mergo"
	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	"github.com/l10n-tools/bundle-helper/suggest"
	"github.com/l10n-tools/bundle-helper/util"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// RepoConfigFile is looked up in the project root.
	RepoConfigFile = "bundle-helper.yaml"
	// UserConfigFile is looked up in the user config dir.
	UserConfigFile = "config.yaml"

	vendor  = "l10n-tools"
	appName = "bundle-helper"
)

// Config holds the complete configuration.
type Config struct {
	DefaultLanguage   string        `yaml:"default_language"`
	PreferredLanguage string        `yaml:"preferred_language,omitempty"`
	Module            string        `yaml:"module,omitempty"`
	Encoding          string        `yaml:"encoding"`
	Extensions        []string      `yaml:"extensions"`
	Exclude           []string      `yaml:"exclude"`
	ModuleMarkers     []string      `yaml:"module_markers"`
	Archives          []string      `yaml:"archives,omitempty"`
	DuplicateSuffix   string        `yaml:"duplicate_suffix"`
	Suggest           SuggestConfig `yaml:"suggest"`
}

// SuggestConfig configures the translation suggestion client.
type SuggestConfig struct {
	// Endpoint switches from the gtranslate client to a direct call of a
	// compatible endpoint.
	Endpoint  string        `yaml:"endpoint,omitempty"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultLanguage: "en",
		Encoding:        bundle.DefaultEncoding,
		Extensions:      append([]string(nil), bundle.DefaultExtensions...),
		Exclude:         append([]string(nil), bundle.DefaultExclude...),
		ModuleMarkers:   append([]string(nil), bundle.DefaultModuleMarkers...),
		DuplicateSuffix: keys.DefaultDuplicateSuffix,
		Suggest: SuggestConfig{
			UserAgent: suggest.DefaultUserAgent,
			Timeout:   suggest.DefaultTimeout,
		},
	}
}

// UserConfigDir returns the directory of the user configuration. CONFIG_DIR
// overrides the XDG location.
func UserConfigDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return xdg.New(vendor, appName).ConfigHome()
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("fail to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// mergeConfigs returns base overridden by every non-empty field of other.
func mergeConfigs(base, other *Config) *Config {
	merged := *base
	merged.Extensions = append([]string(nil), base.Extensions...)
	merged.Exclude = append([]string(nil), base.Exclude...)
	merged.ModuleMarkers = append([]string(nil), base.ModuleMarkers...)
	merged.Archives = append([]string(nil), base.Archives...)
	if other == nil {
		return &merged
	}
	if err := mergo.Merge(&merged, other, mergo.WithOverride); err != nil {
		log.Warnf("fail to merge config: %s", err)
	}
	return &merged
}

// LoadConfig loads the configuration. Later sources override earlier ones:
// built-in defaults, the user config, bundle-helper.yaml in projectRoot, and
// explicitPath. Missing files are skipped, except explicitPath.
func LoadConfig(projectRoot, explicitPath string) (*Config, error) {
	cfg := DefaultConfig()

	var paths []string
	paths = append(paths, filepath.Join(UserConfigDir(), UserConfigFile))
	if projectRoot != "" {
		paths = append(paths, filepath.Join(projectRoot, RepoConfigFile))
	}
	for _, path := range paths {
		if !util.IsFile(path) {
			if util.Exist(path) {
				log.Warnf("config %s is not a file, skipped", path)
			}
			continue
		}
		other, err := loadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		log.Debugf("load config from %s", path)
		cfg = mergeConfigs(cfg, other)
	}

	if explicitPath != "" {
		if !util.IsFile(explicitPath) {
			return nil, fmt.Errorf("config file %s not found", explicitPath)
		}
		other, err := loadConfigFromFile(explicitPath)
		if err != nil {
			return nil, err
		}
		log.Debugf("load config from %s", explicitPath)
		cfg = mergeConfigs(cfg, other)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.DefaultLanguage == "" {
		return errors.New("default_language is required")
	}
	if strings.ContainsAny(c.DefaultLanguage, " ./") {
		return fmt.Errorf("bad default_language '%s'", c.DefaultLanguage)
	}
	if c.Encoding == "" {
		return errors.New("encoding is required")
	}
	if len(c.Extensions) == 0 {
		return errors.New("at least one extension must be configured")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension '%s' must start with a dot", ext)
		}
	}
	if c.DuplicateSuffix == "" {
		return errors.New("duplicate_suffix is required")
	}
	if c.Suggest.Timeout < 0 {
		return errors.New("suggest.timeout must not be negative")
	}
	return nil
}

// DiscoverOptions returns the discovery options for root under c.
func (c *Config) DiscoverOptions(root, owner string, dryRun bool) bundle.Options {
	return bundle.Options{
		Root:          root,
		RootModule:    c.Module,
		Owner:         owner,
		Extensions:    c.Extensions,
		Exclude:       c.Exclude,
		ModuleMarkers: c.ModuleMarkers,
		Archives:      c.Archives,
		Encoding:      c.Encoding,
		DryRun:        dryRun,
	}
}
