package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l10n-tools/bundle-helper/properties"
	"github.com/qiniu/iconv"
	"github.com/sasha-s/go-deadlock"
	log "github.com/sirupsen/logrus"
	"github.com/spkg/bom"
)

// DefaultEncoding is the charset of resource files unless configured
// otherwise.
const DefaultEncoding = "UTF-8"

// ResourceFile is one language variant of a bundle.
type ResourceFile interface {
	// Name is the file name, e.g. messages_de.properties.
	Name() string
	// Path identifies the file, a filesystem path or archive!/entry.
	Path() string
	// Owner is the name of the module the file belongs to.
	Owner() string
	// Language is the code derived from the name, "" for none.
	Language() string
	Writable() bool
	// Document returns the current content. Callers must not modify it,
	// all changes go through Edit.
	Document() *properties.Document
	// Edit applies fn to a copy of the document and stores the result as
	// one unit. Nothing changes when fn or storing fails.
	Edit(fn func(doc *properties.Document) error) error
}

type resource struct {
	mu       deadlock.RWMutex
	name     string
	path     string
	owner    string
	lang     string
	writable bool
	doc      *properties.Document
	store    func(data []byte) error
}

func (r *resource) Name() string     { return r.name }
func (r *resource) Path() string     { return r.path }
func (r *resource) Owner() string    { return r.owner }
func (r *resource) Language() string { return r.lang }
func (r *resource) Writable() bool   { return r.writable }

func (r *resource) Document() *properties.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.doc
}

func (r *resource) Edit(fn func(doc *properties.Document) error) error {
	if !r.writable {
		return fmt.Errorf("%s: %w", r.path, ErrReadOnly)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc := r.doc.Clone()
	if err := fn(doc); err != nil {
		return err
	}
	if err := r.store(doc.Marshal()); err != nil {
		return fmt.Errorf("fail to save %s: %w: %v", r.path, ErrIO, err)
	}
	r.doc = doc
	return nil
}

// MemoryFile is a resource file held in memory.
type MemoryFile struct {
	resource
	data []byte
}

// NewMemoryFile parses data as the content of a resource file named name.
func NewMemoryFile(name, owner string, data []byte, writable bool) (*MemoryFile, error) {
	doc, err := properties.Parse(bom.Clean(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", name, ErrFormat, err)
	}
	f := &MemoryFile{data: data}
	f.resource = resource{
		name:     name,
		path:     name,
		owner:    owner,
		lang:     LanguageOf(name, DefaultExtensions),
		writable: writable,
		doc:      doc,
	}
	f.store = func(data []byte) error {
		f.data = data
		return nil
	}
	return f, nil
}

// Data returns the last stored content.
func (f *MemoryFile) Data() []byte {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.data
}

// DiskFile is a resource file in the filesystem.
type DiskFile struct {
	resource
	encoding string
	dryRun   bool
}

// FileOptions controls how disk files are loaded and saved.
type FileOptions struct {
	Owner      string
	Encoding   string
	Extensions []string
	DryRun     bool
}

// OpenFile loads the resource file at path.
func OpenFile(path string, o FileOptions) (*DiskFile, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	text, err := decode(data, o.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrFormat, err)
	}
	doc, err := properties.Parse([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrFormat, err)
	}

	exts := o.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	name := filepath.Base(path)
	f := &DiskFile{encoding: o.Encoding, dryRun: o.DryRun}
	f.resource = resource{
		name:     name,
		path:     path,
		owner:    o.Owner,
		lang:     LanguageOf(name, exts),
		writable: fi.Mode().Perm()&0200 != 0,
		doc:      doc,
	}
	f.store = f.save
	return f, nil
}

func (f *DiskFile) save(data []byte) error {
	out, err := encode(string(data), f.encoding)
	if err != nil {
		return err
	}
	if f.dryRun {
		log.WithField("file", f.path).Infof("dry-run: would write %d bytes", len(out))
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+f.name+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err = tmp.Write(out); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if fi, err := os.Stat(f.path); err == nil {
		_ = os.Chmod(tmpName, fi.Mode().Perm())
	}
	if err = os.Rename(tmpName, f.path); err != nil {
		return err
	}
	log.WithField("file", f.path).Debug("saved")
	return nil
}

func isUTF8(encoding string) bool {
	enc := strings.Replace(strings.ToLower(encoding), "-", "", -1)
	return enc == "" || enc == "utf8"
}

func decode(data []byte, encoding string) (string, error) {
	data = bom.Clean(data)
	if isUTF8(encoding) {
		return string(data), nil
	}
	cd, err := iconv.Open(DefaultEncoding, encoding)
	if err != nil {
		return "", fmt.Errorf("iconv.Open failed: %s", err)
	}
	defer cd.Close()
	return cd.ConvString(string(data)), nil
}

func encode(text, encoding string) ([]byte, error) {
	if isUTF8(encoding) {
		return []byte(text), nil
	}
	cd, err := iconv.Open(encoding, DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("iconv.Open failed: %s", err)
	}
	defer cd.Close()
	return []byte(cd.ConvString(text)), nil
}
