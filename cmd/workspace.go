package cmd

import (
	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/config"
	"github.com/l10n-tools/bundle-helper/flag"
	"github.com/l10n-tools/bundle-helper/repository"
	"github.com/l10n-tools/bundle-helper/session"
	"github.com/l10n-tools/bundle-helper/suggest"
	"github.com/l10n-tools/bundle-helper/util"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// workspace is what every command works on: the configuration and the
// scope of bundles discovered below the project root.
type workspace struct {
	Root   string
	Config *config.Config
	Scope  *bundle.Scope
}

func loadConfig() (*config.Config, string, error) {
	root := repository.ProjectRoot(flag.Root())
	if !util.IsDir(root) {
		return nil, root, newUserErrorF("root %s is not a directory", root)
	}
	cfg, err := config.LoadConfig(root, flag.Config())
	if err != nil {
		return nil, root, NewStandardErrorF("fail to load config: %w", err)
	}
	return cfg, root, nil
}

func loadWorkspace() (*workspace, error) {
	cfg, root, err := loadConfig()
	if err != nil {
		return nil, err
	}
	scope, err := bundle.Discover(cfg.DiscoverOptions(root, flag.Module(), flag.DryRun()))
	if err != nil {
		return nil, err
	}
	if flag.DryRun() {
		log.Info("dry-run mode, no file will be changed")
	}
	return &workspace{Root: root, Config: cfg, Scope: scope}, nil
}

// BundleNames returns the distinct base names in scope order.
func (w *workspace) BundleNames() []string {
	return lo.Uniq(lo.Map(w.Scope.Bundles(), func(b *bundle.Bundle, _ int) string {
		return b.BaseName
	}))
}

// Bundle resolves the bundle named by name, see util.ResolveBundle.
func (w *workspace) Bundle(name string) (*bundle.Bundle, error) {
	baseName, err := util.ResolveBundle(name, w.BundleNames())
	if err != nil {
		return nil, newUserError(err)
	}
	return w.Scope.Bundle(baseName), nil
}

// Language returns lang, or the configured default language.
func (w *workspace) Language(lang string) string {
	if lang == "" {
		return w.Config.DefaultLanguage
	}
	return lang
}

// Model returns a session model over the scope.
func (w *workspace) Model() *session.Model {
	prefs := &session.Preferences{}
	if w.Config.PreferredLanguage != "" {
		prefs.SetPreferred(w.Config.PreferredLanguage)
	}
	return session.New(w.Scope, prefs, session.Options{
		DefaultLanguage: w.Config.DefaultLanguage,
		DuplicateSuffix: w.Config.DuplicateSuffix,
	})
}

// SuggestService returns the configured translation service.
func (w *workspace) SuggestService() suggest.Service {
	s := w.Config.Suggest
	return suggest.NewService(s.Endpoint, s.UserAgent, s.Timeout)
}
