// Package keys resolves translation keys and changes them across all
// language files of a bundle.
package keys

import (
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/codec"
	"github.com/l10n-tools/bundle-helper/properties"
	log "github.com/sirupsen/logrus"
)

// DefaultDuplicateSuffix is appended to a key duplicated within its own
// bundle.
const DefaultDuplicateSuffix = ".copy"

// Resolve returns the value of key from the first file holding it. When no
// file holds key, the key without its first segment is tried, until no dot
// is left.
func Resolve(files []bundle.ResourceFile, key string) (string, bool) {
	for {
		for _, f := range files {
			if e, ok := f.Document().Lookup(key); ok {
				return e.Text(), true
			}
		}
		i := strings.IndexByte(key, '.')
		if i < 0 {
			return "", false
		}
		key = key[i+1:]
	}
}

// ResolveIn resolves key in the files of lang across the scope.
func ResolveIn(scope *bundle.Scope, key, lang string) (string, bool) {
	return Resolve(scope.FilesFor(lang), key)
}

// ResolveInBundle resolves key in the file of lang of b.
func ResolveInBundle(b *bundle.Bundle, key, lang string) (string, bool) {
	return Resolve(b.FilesFor(lang), key)
}

// Lookup returns the value of key in f without any fallback.
func Lookup(f bundle.ResourceFile, key string) (string, bool) {
	if f == nil {
		return "", false
	}
	e, ok := f.Document().Lookup(key)
	if !ok {
		return "", false
	}
	return e.Text(), true
}

// insertionPoint returns the entry after which key is inserted: the last
// entry seen before the first one sorting after key. -1 means append.
func insertionPoint(doc *properties.Document, key string) int {
	best := -1
	for i, e := range doc.Entries() {
		if e.Name() > key {
			break
		}
		best = i
	}
	return best
}

func insert(doc *properties.Document, key, value string) {
	doc.InsertAfter(insertionPoint(doc, key), properties.NewEntry(key, value))
}

// Create adds key with an empty value to every file of b lacking it.
func Create(b *bundle.Bundle, key string) *Result {
	s := newSaga("create %s", key)
	for _, f := range b.Files {
		if f.Document().Contains(key) {
			continue
		}
		s.add(f, func() error {
			return f.Edit(func(doc *properties.Document) error {
				insert(doc, key, "")
				return nil
			})
		})
	}
	return s.run()
}

// Rename renames every entry named oldKey in every file of b.
func Rename(b *bundle.Bundle, oldKey, newKey string) *Result {
	s := newSaga("rename %s to %s", oldKey, newKey)
	if oldKey == newKey {
		return s.run()
	}
	stored := codec.Escape(newKey)
	for _, f := range b.Files {
		if !f.Document().Contains(oldKey) {
			continue
		}
		s.add(f, func() error {
			return f.Edit(func(doc *properties.Document) error {
				for _, i := range doc.FindAll(oldKey) {
					doc.SetKey(i, stored)
				}
				return nil
			})
		})
	}
	return s.run()
}

// Delete removes every entry named key from every file of b.
func Delete(b *bundle.Bundle, key string) *Result {
	s := newSaga("delete %s", key)
	for _, f := range b.Files {
		if !f.Document().Contains(key) {
			continue
		}
		s.add(f, func() error {
			return f.Edit(func(doc *properties.Document) error {
				found := doc.FindAll(key)
				for i := len(found) - 1; i >= 0; i-- {
					doc.Remove(found[i])
				}
				return nil
			})
		})
	}
	return s.run()
}

// Duplicate copies the translations of key from source into target. Inside
// the same bundle the new key gets suffix appended. It returns the new key.
func Duplicate(source, target *bundle.Bundle, key, suffix string) (string, *Result) {
	newKey := key
	if source == target {
		if suffix == "" {
			suffix = DefaultDuplicateSuffix
		}
		newKey = key + suffix
	}

	s := newSaga("duplicate %s to %s", key, newKey)
	for _, lang := range source.Languages() {
		value, ok := Lookup(source.Sibling(lang), key)
		if !ok {
			continue
		}
		f := target.Sibling(lang)
		if f == nil {
			log.WithField("bundle", target.BaseName).
				Warnf("no %s file, skip duplicating %s", lang, key)
			continue
		}
		s.add(f, func() error {
			return f.Edit(func(doc *properties.Document) error {
				set(doc, newKey, value)
				return nil
			})
		})
	}
	return newKey, s.run()
}

// Update sets the value of key in f, inserting key at its sorted position
// when missing.
func Update(f bundle.ResourceFile, key, value string) error {
	return f.Edit(func(doc *properties.Document) error {
		set(doc, key, value)
		return nil
	})
}

func set(doc *properties.Document, key, value string) {
	found := doc.FindAll(key)
	if len(found) == 0 {
		insert(doc, key, value)
		return
	}
	stored := codec.Escape(value)
	for _, i := range found {
		doc.SetValue(i, stored)
	}
}
