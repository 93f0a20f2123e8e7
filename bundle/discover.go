package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Defaults for discovery.
var (
	DefaultExclude       = []string{".git", "target", "build", "node_modules"}
	DefaultModuleMarkers = []string{"pom.xml", "build.gradle", "build.gradle.kts", "go.mod", "package.json"}
)

var resourceRoots = []string{"src/main/resources/", "src/test/resources/"}

// Options controls Discover.
type Options struct {
	// Root is the directory to scan.
	Root string
	// Owner names the module the scope is built for. Empty means the
	// module containing Root.
	Owner string
	// RootModule names the module at Root, default is the base name of
	// Root.
	RootModule    string
	Extensions    []string
	Exclude       []string
	ModuleMarkers []string
	// Archives are jar or zip files contributing read-only bundles.
	Archives []string
	Encoding string
	DryRun   bool
}

func (o *Options) setDefaults() {
	if len(o.Extensions) == 0 {
		o.Extensions = DefaultExtensions
	}
	if o.Exclude == nil {
		o.Exclude = DefaultExclude
	}
	if o.ModuleMarkers == nil {
		o.ModuleMarkers = DefaultModuleMarkers
	}
	if o.RootModule == "" {
		o.RootModule = filepath.Base(o.Root)
	}
	if o.Owner == "" {
		o.Owner = o.RootModule
	}
}

type bundleKey struct {
	owner    string
	baseName string
}

type collector struct {
	bundles map[bundleKey]*Bundle
	// localized marks bundles with at least one language suffixed file.
	localized map[bundleKey]bool
}

func (c *collector) add(baseName string, f ResourceFile) {
	k := bundleKey{owner: f.Owner(), baseName: baseName}
	b, ok := c.bundles[k]
	if !ok {
		b = &Bundle{BaseName: baseName, Owner: f.Owner()}
		c.bundles[k] = b
	}
	b.Files = append(b.Files, f)
	if f.Language() != "" {
		c.localized[k] = true
	}
}

// Discover scans the filesystem below Root and the configured archives and
// returns the scope of Owner.
func Discover(o Options) (*Scope, error) {
	root, err := filepath.Abs(o.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	o.Root = root
	o.setDefaults()
	c := &collector{
		bundles:   make(map[bundleKey]*Bundle),
		localized: make(map[bundleKey]bool),
	}

	modules := map[string]string{root: o.RootModule}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			log.WithField("path", p).Warnf("skip: %s", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && lo.Contains(o.Exclude, d.Name()) {
				return filepath.SkipDir
			}
			if p != root && hasMarker(p, o.ModuleMarkers) {
				modules[p] = d.Name()
			}
			return nil
		}
		if !hasExtension(d.Name(), o.Extensions) {
			return nil
		}

		moduleDir := moduleOf(p, root, modules)
		f, err := OpenFile(p, FileOptions{
			Owner:      modules[moduleDir],
			Encoding:   o.Encoding,
			Extensions: o.Extensions,
			DryRun:     o.DryRun,
		})
		if err != nil {
			log.WithField("file", p).Warnf("skip: %s", err)
			return nil
		}
		rel, _ := filepath.Rel(moduleDir, p)
		c.add(baseNameOf(filepath.ToSlash(rel), o.Extensions), f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}

	for _, archive := range o.Archives {
		if err := c.addArchive(archive, o.Extensions); err != nil {
			log.WithField("archive", archive).Warnf("skip: %s", err)
		}
	}

	scope := NewScope(o.Owner)
	for k, b := range c.bundles {
		if !c.localized[k] {
			continue
		}
		sort.SliceStable(b.Files, func(i, j int) bool {
			return b.Files[i].Name() < b.Files[j].Name()
		})
		scope.Add(b)
	}
	log.Debugf("found %d bundles below %s", len(scope.Bundles()), root)
	return scope, nil
}

func (c *collector) addArchive(archive string, extensions []string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer zr.Close()

	owner := strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive))
	for _, entry := range zr.File {
		name := path.Base(entry.Name)
		if entry.FileInfo().IsDir() || !hasExtension(name, extensions) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		f, err := NewMemoryFile(name, owner, data, false)
		if err != nil {
			log.WithField("file", entry.Name).Warnf("skip: %s", err)
			continue
		}
		f.path = archive + "!/" + entry.Name
		f.lang = LanguageOf(name, extensions)
		c.add(baseNameOf(entry.Name, extensions), f)
	}
	return nil
}

// baseNameOf turns a slash separated path relative to the module (or
// archive root) into a dotted bundle name.
func baseNameOf(rel string, extensions []string) string {
	for _, root := range resourceRoots {
		if i := strings.Index(rel, root); i >= 0 {
			rel = rel[i+len(root):]
			break
		}
	}
	dir, name := path.Split(rel)
	base := BaseNameOf(name, extensions)
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return base
	}
	return strings.ReplaceAll(dir, "/", ".") + "." + base
}

func hasExtension(name string, extensions []string) bool {
	return lo.ContainsBy(extensions, func(ext string) bool {
		return strings.HasSuffix(name, ext)
	})
}

func hasMarker(dir string, markers []string) bool {
	return lo.ContainsBy(markers, func(m string) bool {
		return fileExists(filepath.Join(dir, m))
	})
}

func moduleOf(p, root string, modules map[string]string) string {
	for dir := filepath.Dir(p); ; dir = filepath.Dir(dir) {
		if _, ok := modules[dir]; ok {
			return dir
		}
		if dir == root || dir == filepath.Dir(dir) {
			return root
		}
	}
}

func fileExists(name string) bool {
	fi, err := os.Stat(name)
	return err == nil && !fi.IsDir()
}
