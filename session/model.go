// Package session keeps the state of a translation session: which key is
// selected, in which file and in which language.
package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/keys"
	"github.com/l10n-tools/bundle-helper/suggest"
	"github.com/sasha-s/go-deadlock"
	log "github.com/sirupsen/logrus"
)

// State of a model.
type State int

// Model states.
const (
	Uninitialized State = iota
	Resolving
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Resolving:
		return "RESOLVING"
	case Ready:
		return "READY"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Selection is what the user points at.
type Selection struct {
	// Key is the full key path.
	Key string
	// Origin is the path of the file the key was picked from. It may be a
	// file that is not a resource file.
	Origin string
	// Owner is the module of the origin, default is the scope's module.
	Owner string
	// File is the path of a resource file chosen explicitly.
	File string
	// Force re-resolves even when nothing changed.
	Force bool
}

// Options of a model.
type Options struct {
	DefaultLanguage string
	DuplicateSuffix string
}

// Translation is the value of the selected key in one language.
type Translation struct {
	Language string
	Value    string
	Found    bool
}

// Model is the selection state of one session.
type Model struct {
	mu    deadlock.Mutex
	scope *bundle.Scope
	prefs *Preferences
	opts  Options

	state       State
	keyPath     string
	selectedKey string
	language    string
	owner       string
	originPath  string
	selected    bundle.ResourceFile
	explicit    bundle.ResourceFile
	files       []bundle.ResourceFile

	guard     refreshGuard
	listeners []func()
	pending   []func()
}

// New creates a model over scope. A nil prefs gets a private Preferences.
func New(scope *bundle.Scope, prefs *Preferences, opts Options) *Model {
	if prefs == nil {
		prefs = &Preferences{}
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "en"
	}
	return &Model{scope: scope, prefs: prefs, opts: opts, owner: scope.Owner}
}

// OnChange registers fn to run after every change of the model.
func (m *Model) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// RunWhenComplete runs fn once the model is ready, right away when it
// already is.
func (m *Model) RunWhenComplete(fn func()) {
	m.mu.Lock()
	if m.state != Ready {
		m.pending = append(m.pending, fn)
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	fn()
}

// notify runs listeners and queued callbacks. It must be called without
// holding m.mu.
func (m *Model) notify() {
	m.mu.Lock()
	fns := append([]func(){}, m.listeners...)
	if m.state == Ready {
		fns = append(fns, m.pending...)
		m.pending = nil
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// RefreshBlocked reports whether a structural change is running.
func (m *Model) RefreshBlocked() bool {
	return m.guard.held()
}

// Select resolves a new selection. It returns false when the selection is
// ignored: while a structural change runs, for an empty key, or when the
// same key, origin and owner are already selected.
func (m *Model) Select(sel Selection) bool {
	if m.guard.held() {
		log.WithField("key", sel.Key).Debug("refresh blocked, selection ignored")
		return false
	}
	if sel.Key == "" {
		return false
	}

	if sel.Owner == "" {
		sel.Owner = m.scope.Owner
	}

	m.mu.Lock()
	if !sel.Force && sel.File == "" && m.state == Ready &&
		sel.Key == m.keyPath && sel.Origin == m.originPath && sel.Owner == m.owner {
		m.mu.Unlock()
		return false
	}
	m.state = Resolving
	m.keyPath = sel.Key
	m.selectedKey = sel.Key
	m.originPath = sel.Origin
	m.owner = sel.Owner
	if sel.File != "" {
		m.explicit = m.scope.FileByPath(sel.File)
		if m.explicit == nil {
			log.WithField("file", sel.File).Warn("not a resource file of the scope")
		}
	}
	m.resolve()
	m.state = Ready
	m.mu.Unlock()

	m.notify()
	return true
}

// resolve derives language, file and file list. Callers hold m.mu.
func (m *Model) resolve() {
	var origin bundle.ResourceFile
	if m.originPath != "" {
		origin = m.scope.FileByPath(m.originPath)
	}
	writableOrigin := origin != nil && origin.Writable()

	switch {
	case m.prefs.Preferred() != "":
		m.language = m.prefs.Preferred()
	case writableOrigin && origin.Language() != "":
		m.language = origin.Language()
	case m.prefs.LastUsed() != "":
		m.language = m.prefs.LastUsed()
	default:
		m.language = m.opts.DefaultLanguage
		m.prefs.SetLastUsed(m.language)
	}
	m.language = strings.ToLower(m.language)

	switch {
	case writableOrigin:
		m.selected = origin
	case m.explicit != nil:
		m.selected = m.explicit
	default:
		m.selected = m.scope.BestFileFor(m.keyPath)
		if m.selected == nil {
			m.selected = m.scope.DefaultFile(m.opts.DefaultLanguage)
		}
	}
	m.refreshFiles()

	log.WithFields(log.Fields{
		"key":      m.keyPath,
		"language": m.language,
		"file":     m.selectedPath(),
	}).Debug("selection resolved")
}

func (m *Model) refreshFiles() {
	m.files = m.scope.FilesForOwner(m.language, m.owner)
	if len(m.files) == 0 {
		m.files = m.scope.FilesFor(m.language)
	}
}

func (m *Model) selectedPath() string {
	if m.selected == nil {
		return ""
	}
	return m.selected.Path()
}

// State returns the model state.
func (m *Model) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// KeyPath returns the full selected key path.
func (m *Model) KeyPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keyPath
}

// SelectedKey returns the dot-suffix of the key path currently addressed.
func (m *Model) SelectedKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedKey
}

// Language returns the selected language.
func (m *Model) Language() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.language
}

// SelectedFile returns the selected resource file, nil when there is none.
func (m *Model) SelectedFile() bundle.ResourceFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Bundle returns the bundle of the selected file.
func (m *Model) Bundle() *bundle.Bundle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scope.BundleOf(m.selected)
}

// Files returns the files of the selected language.
func (m *Model) Files() []bundle.ResourceFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bundle.ResourceFile(nil), m.files...)
}

// Languages returns the languages of the selected bundle.
func (m *Model) Languages() []string {
	b := m.Bundle()
	if b == nil {
		return nil
	}
	return b.Languages()
}

// Resolved returns the value of the key path in the selected language,
// falling back to shorter keys.
func (m *Model) Resolved() (string, bool) {
	m.mu.Lock()
	files, key := m.files, m.keyPath
	m.mu.Unlock()
	return keys.Resolve(files, key)
}

// Translation returns the value of the selected key in lang.
func (m *Model) Translation(lang string) (string, bool) {
	b := m.Bundle()
	if b == nil {
		return "", false
	}
	return keys.Lookup(b.Sibling(lang), m.SelectedKey())
}

// Translations returns the selected key in all languages of the bundle.
func (m *Model) Translations() []Translation {
	var out []Translation
	for _, lang := range m.Languages() {
		v, ok := m.Translation(lang)
		out = append(out, Translation{Language: lang, Value: v, Found: ok})
	}
	return out
}

// HasAtLeastOneTranslation reports whether any language has the selected
// key.
func (m *Model) HasAtLeastOneTranslation() bool {
	for _, t := range m.Translations() {
		if t.Found {
			return true
		}
	}
	return false
}

// SetLanguage switches the language and moves the selection to the
// sibling file in that language when there is one.
func (m *Model) SetLanguage(lang string) {
	lang = strings.ToLower(lang)
	m.mu.Lock()
	m.language = lang
	m.prefs.SetLastUsed(lang)
	if b := m.scope.BundleOf(m.selected); b != nil {
		if sibling := b.Sibling(lang); sibling != nil {
			m.selected = sibling
		}
	}
	m.refreshFiles()
	m.mu.Unlock()
	m.notify()
}

// SetPreferredLanguage records lang as the explicit choice and switches to
// it.
func (m *Model) SetPreferredLanguage(lang string) {
	m.prefs.SetPreferred(lang)
	m.SetLanguage(lang)
}

// SelectFile selects the resource file at path explicitly.
func (m *Model) SelectFile(path string) error {
	f := m.scope.FileByPath(path)
	if f == nil {
		return fmt.Errorf("%w: resource file %s", bundle.ErrNotFound, path)
	}
	m.mu.Lock()
	m.explicit = f
	m.selected = f
	m.mu.Unlock()
	m.notify()
	return nil
}

// ScrollLeft extends the selected key by one more segment of the key path.
func (m *Model) ScrollLeft() bool {
	m.mu.Lock()
	if len(m.selectedKey) >= len(m.keyPath) {
		m.mu.Unlock()
		return false
	}
	prefix := m.keyPath[:len(m.keyPath)-len(m.selectedKey)-1]
	i := strings.LastIndexByte(prefix, '.')
	m.selectedKey = m.keyPath[i+1:]
	m.mu.Unlock()
	m.notify()
	return true
}

// ScrollRight drops the first segment of the selected key.
func (m *Model) ScrollRight() bool {
	m.mu.Lock()
	i := strings.IndexByte(m.selectedKey, '.')
	if i <= 0 {
		m.mu.Unlock()
		return false
	}
	m.selectedKey = m.selectedKey[i+1:]
	m.mu.Unlock()
	m.notify()
	return true
}

// target returns the selected file, its bundle and the selected key.
func (m *Model) target() (bundle.ResourceFile, *bundle.Bundle, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return nil, nil, "", fmt.Errorf("%w: no resource file selected", bundle.ErrNotFound)
	}
	b := m.scope.BundleOf(m.selected)
	if b == nil {
		return nil, nil, "", fmt.Errorf("%w: no bundle for %s", bundle.ErrNotFound, m.selected.Path())
	}
	return m.selected, b, m.selectedKey, nil
}

// UpdateTranslation sets the selected key in the lang file of the selected
// bundle.
func (m *Model) UpdateTranslation(lang, value string) error {
	_, b, key, err := m.target()
	if err != nil {
		return err
	}
	f := b.Sibling(lang)
	if f == nil {
		return fmt.Errorf("%w: no %s file in bundle %s", bundle.ErrNotFound, lang, b.BaseName)
	}
	if err := keys.Update(f, key, value); err != nil {
		return err
	}
	m.notify()
	return nil
}

// CreateKey adds the selected key to every file of the selected bundle.
func (m *Model) CreateKey() (*keys.Result, error) {
	f, b, key, err := m.target()
	if err != nil {
		return nil, err
	}
	if !f.Writable() {
		return nil, fmt.Errorf("%s: %w", f.Path(), bundle.ErrReadOnly)
	}

	release := m.guard.acquire()
	defer release()
	res := keys.Create(b, key)
	m.notify()
	return res, res.Err()
}

// DeleteKey removes the selected key from the selected bundle and selects
// the best file left for the key path.
func (m *Model) DeleteKey() (*keys.Result, error) {
	_, b, key, err := m.target()
	if err != nil {
		return nil, err
	}

	release := m.guard.acquire()
	defer release()
	res := keys.Delete(b, key)

	m.mu.Lock()
	if best := m.scope.BestFileFor(m.keyPath); best != nil {
		m.selected = best
	}
	m.mu.Unlock()
	m.notify()
	return res, res.Err()
}

// DuplicateKey copies the selected key within its bundle and selects the
// copy.
func (m *Model) DuplicateKey() (string, *keys.Result, error) {
	_, b, key, err := m.target()
	if err != nil {
		return "", nil, err
	}

	release := m.guard.acquire()
	defer release()
	newKey, res := keys.Duplicate(b, b, key, m.opts.DuplicateSuffix)

	m.mu.Lock()
	m.keyPath = newKey
	m.selectedKey = newKey
	m.mu.Unlock()
	m.notify()
	return newKey, res, res.Err()
}

// RenameKey renames the selected key in its bundle. The key path keeps the
// segments in front of the selected key.
func (m *Model) RenameKey(newKey string) (*keys.Result, error) {
	_, b, key, err := m.target()
	if err != nil {
		return nil, err
	}

	release := m.guard.acquire()
	defer release()
	res := keys.Rename(b, key, newKey)

	m.mu.Lock()
	if m.selectedKey == key {
		m.keyPath = m.keyPath[:len(m.keyPath)-len(key)] + newKey
		m.selectedKey = newKey
	}
	m.mu.Unlock()
	m.notify()
	return res, res.Err()
}

// Suggest asks svc for a translation of the selected key into the selected
// language. The task can be canceled from another goroutine.
func (m *Model) Suggest(ctx context.Context, svc suggest.Service, task *suggest.Task) (string, error) {
	_, b, key, err := m.target()
	if err != nil {
		return "", err
	}
	target := m.Language()
	source, text := suggest.PickSource(b, key, target)
	if task == nil {
		task = &suggest.Task{}
	}
	return task.Run(ctx, svc, source, target, text, key)
}
