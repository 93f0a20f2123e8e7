// Package bundle indexes resource files into bundles and answers which file
// holds a key in which language.
package bundle

import (
	"sort"

	"github.com/samber/lo"
)

// Bundle groups the language variants of one resource, e.g. all
// messages_*.properties files of com.acme.messages.
type Bundle struct {
	// BaseName is the dotted name, e.g. com.acme.messages.
	BaseName string
	// Owner is the module the bundle belongs to.
	Owner string
	Files []ResourceFile
}

// Languages returns the language codes of the bundle's files, preferred
// languages first.
func (b *Bundle) Languages() []string {
	var langs []string
	for _, f := range b.Files {
		if lang := f.Language(); lang != "" {
			langs = append(langs, lang)
		}
	}
	return OrderLanguages(langs)
}

// FilesFor returns the files for lang, or all files when lang is empty.
func (b *Bundle) FilesFor(lang string) []ResourceFile {
	if lang == "" {
		return b.Files
	}
	return lo.Filter(b.Files, func(f ResourceFile, _ int) bool {
		return f.Language() == lang
	})
}

// Sibling returns the file of the bundle for lang, or nil.
func (b *Bundle) Sibling(lang string) ResourceFile {
	f, ok := lo.Find(b.Files, func(f ResourceFile) bool {
		return f.Language() == lang
	})
	if !ok {
		return nil
	}
	return f
}

// Contains reports whether f is one of the bundle's files.
func (b *Bundle) Contains(f ResourceFile) bool {
	return lo.Contains(b.Files, f)
}

// Scope is the set of bundles visible from one module. Bundles owned by the
// module come first, then the bundles of other modules and archives, each
// group sorted by base name.
type Scope struct {
	Owner   string
	bundles []*Bundle
}

// NewScope builds a scope for owner.
func NewScope(owner string, bundles ...*Bundle) *Scope {
	s := &Scope{Owner: owner}
	s.Add(bundles...)
	return s
}

// Add adds bundles to the scope and restores the scope order.
func (s *Scope) Add(bundles ...*Bundle) {
	s.bundles = append(s.bundles, bundles...)
	sort.SliceStable(s.bundles, func(i, j int) bool {
		li, lj := s.bundles[i].Owner == s.Owner, s.bundles[j].Owner == s.Owner
		if li != lj {
			return li
		}
		return s.bundles[i].BaseName < s.bundles[j].BaseName
	})
}

// Bundles returns all bundles in scope order.
func (s *Scope) Bundles() []*Bundle {
	return s.bundles
}

// Local returns the bundles owned by the scope's module.
func (s *Scope) Local() []*Bundle {
	return lo.Filter(s.bundles, func(b *Bundle, _ int) bool {
		return b.Owner == s.Owner
	})
}

// Bundle returns the bundle with the given base name. Local bundles win.
func (s *Scope) Bundle(baseName string) *Bundle {
	b, ok := lo.Find(s.bundles, func(b *Bundle) bool {
		return b.BaseName == baseName
	})
	if !ok {
		return nil
	}
	return b
}

// BundleOf returns the bundle holding f.
func (s *Scope) BundleOf(f ResourceFile) *Bundle {
	if f == nil {
		return nil
	}
	b, ok := lo.Find(s.bundles, func(b *Bundle) bool {
		return b.Contains(f)
	})
	if !ok {
		return nil
	}
	return b
}

// FileByPath returns the file with the given path.
func (s *Scope) FileByPath(path string) ResourceFile {
	for _, b := range s.bundles {
		for _, f := range b.Files {
			if f.Path() == path {
				return f
			}
		}
	}
	return nil
}

// Files returns all files in scope order.
func (s *Scope) Files() []ResourceFile {
	var files []ResourceFile
	for _, b := range s.bundles {
		files = append(files, b.Files...)
	}
	return files
}

// FilesFor returns the files for lang across all bundles, in scope order.
func (s *Scope) FilesFor(lang string) []ResourceFile {
	var files []ResourceFile
	for _, b := range s.bundles {
		files = append(files, b.FilesFor(lang)...)
	}
	return files
}

// FilesForOwner is FilesFor limited to the bundles of owner.
func (s *Scope) FilesForOwner(lang, owner string) []ResourceFile {
	var files []ResourceFile
	for _, b := range s.bundles {
		if b.Owner == owner {
			files = append(files, b.FilesFor(lang)...)
		}
	}
	return files
}

// BestFileFor returns the first writable file containing key. Without a
// writable match the last matching file is returned; nil means no file
// contains key.
func (s *Scope) BestFileFor(key string) ResourceFile {
	var best ResourceFile
	for _, b := range s.bundles {
		for _, f := range b.Files {
			if !f.Document().Contains(key) {
				continue
			}
			if f.Writable() {
				return f
			}
			best = f
		}
	}
	return best
}

// DefaultFile returns the first writable file for lang in scope order.
func (s *Scope) DefaultFile(lang string) ResourceFile {
	f, ok := lo.Find(s.FilesFor(lang), func(f ResourceFile) bool {
		return f.Writable()
	})
	if !ok {
		return nil
	}
	return f
}
