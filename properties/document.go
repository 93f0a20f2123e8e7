// Package properties implements an order preserving model of .properties
// files.
//
// Entries keep their stored (escaped) key and value. Comments, blank lines
// and untouched entries are written back exactly as they were read, so that
// editing a single entry produces a minimal change in the file.
package properties

import (
	"bytes"
	"strings"

	"github.com/l10n-tools/bundle-helper/codec"
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineEntry
)

// line is one logical line. Entries may span several physical lines.
type line struct {
	kind  lineKind
	raw   []string
	key   string
	value string
	dirty bool
}

// Entry is a key/value pair in stored form.
type Entry struct {
	Key   string
	Value string
}

// Name returns the unescaped key.
func (e Entry) Name() string {
	return codec.Unescape(e.Key)
}

// Text returns the unescaped value.
func (e Entry) Text() string {
	return codec.Unescape(e.Value)
}

// NewEntry builds an entry from raw key and raw value.
func NewEntry(name, text string) Entry {
	return Entry{Key: codec.Escape(name), Value: codec.Escape(text)}
}

// Document is a parsed .properties file.
type Document struct {
	lines []line
}

// Parse parses .properties content. Line endings are normalized to "\n".
func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	physical := strings.Split(text, "\n")
	if len(physical) > 0 && physical[len(physical)-1] == "" {
		physical = physical[:len(physical)-1]
	}

	for i := 0; i < len(physical); i++ {
		raw := physical[i]
		trimmed := strings.TrimLeft(raw, " \t\f")
		switch {
		case trimmed == "":
			doc.lines = append(doc.lines, line{kind: lineBlank, raw: []string{raw}})
			continue
		case trimmed[0] == '#' || trimmed[0] == '!':
			doc.lines = append(doc.lines, line{kind: lineComment, raw: []string{raw}})
			continue
		}

		ln := line{kind: lineEntry, raw: []string{raw}}
		logical := trimmed
		for continues(logical) && i+1 < len(physical) {
			i++
			ln.raw = append(ln.raw, physical[i])
			logical = logical[:len(logical)-1] + strings.TrimLeft(physical[i], " \t\f")
		}
		if continues(logical) {
			logical = logical[:len(logical)-1]
		}
		ln.key, ln.value = splitKeyValue(logical)
		doc.lines = append(doc.lines, ln)
	}
	return doc, nil
}

// continues reports whether s ends with an odd number of backslashes.
func continues(s string) bool {
	n := 0
	for i := len(s) - 1; i >= 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitKeyValue splits a logical line with leading whitespace removed. The
// key ends at the first unescaped '=', ':' or whitespace; a single '=' or ':'
// and whitespace around it are skipped.
func splitKeyValue(s string) (key, value string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '=' || c == ':' || isBlank(c) {
			break
		}
		i++
	}
	if i > len(s) {
		i = len(s)
	}
	key = s[:i]

	rest := strings.TrimLeft(s[i:], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	return key, rest
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}

// Marshal serializes the document. Lines that were not modified keep their
// original text.
func (d *Document) Marshal() []byte {
	var buf bytes.Buffer
	for _, ln := range d.lines {
		if ln.kind == lineEntry && (ln.dirty || len(ln.raw) == 0) {
			buf.WriteString(formatStored(ln.key, true))
			buf.WriteByte('=')
			buf.WriteString(formatStored(ln.value, false))
			buf.WriteByte('\n')
			continue
		}
		for _, raw := range ln.raw {
			buf.WriteString(raw)
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes()
}

// formatStored writes a stored key or value so that parsing it back yields
// the same stored text. Literal line breaks become continuation lines.
func formatStored(s string, isKey bool) string {
	var b strings.Builder
	lineStart := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			b.WriteByte(c)
			if i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else {
				b.WriteByte('\\')
			}
			lineStart = false
			continue
		case c == '\n' || c == '\r':
			if isKey {
				continue
			}
			b.WriteString("\\\n")
			lineStart = true
			continue
		case lineStart && isBlank(c):
			b.WriteByte('\\')
		case isKey && (c == '=' || c == ':' || isBlank(c)):
			b.WriteByte('\\')
		case isKey && i == 0 && (c == '#' || c == '!'):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
		lineStart = false
	}
	return b.String()
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{lines: make([]line, len(d.lines))}
	for i, ln := range d.lines {
		ln.raw = append([]string(nil), ln.raw...)
		c.lines[i] = ln
	}
	return c
}

// Len returns the number of entries.
func (d *Document) Len() int {
	n := 0
	for _, ln := range d.lines {
		if ln.kind == lineEntry {
			n++
		}
	}
	return n
}

// Entries returns all entries in document order.
func (d *Document) Entries() []Entry {
	entries := make([]Entry, 0, len(d.lines))
	for _, ln := range d.lines {
		if ln.kind == lineEntry {
			entries = append(entries, Entry{Key: ln.key, Value: ln.value})
		}
	}
	return entries
}

// Entry returns the i-th entry.
func (d *Document) Entry(i int) Entry {
	ln := d.lines[d.lineOf(i)]
	return Entry{Key: ln.key, Value: ln.value}
}

// Find returns the index of the first entry named name, or -1.
func (d *Document) Find(name string) int {
	n := 0
	for _, ln := range d.lines {
		if ln.kind != lineEntry {
			continue
		}
		if codec.Unescape(ln.key) == name {
			return n
		}
		n++
	}
	return -1
}

// FindAll returns the indexes of all entries named name.
func (d *Document) FindAll(name string) []int {
	var found []int
	n := 0
	for _, ln := range d.lines {
		if ln.kind != lineEntry {
			continue
		}
		if codec.Unescape(ln.key) == name {
			found = append(found, n)
		}
		n++
	}
	return found
}

// Lookup returns the first entry named name.
func (d *Document) Lookup(name string) (Entry, bool) {
	if i := d.Find(name); i >= 0 {
		return d.Entry(i), true
	}
	return Entry{}, false
}

// Contains reports whether an entry named name exists.
func (d *Document) Contains(name string) bool {
	return d.Find(name) >= 0
}

// Texts maps every entry name to its unescaped value. The first entry wins
// for duplicated names.
func (d *Document) Texts() map[string]string {
	m := make(map[string]string)
	for _, ln := range d.lines {
		if ln.kind != lineEntry {
			continue
		}
		name := codec.Unescape(ln.key)
		if _, ok := m[name]; !ok {
			m[name] = codec.Unescape(ln.value)
		}
	}
	return m
}

// SetValue replaces the stored value of the i-th entry.
func (d *Document) SetValue(i int, stored string) {
	ln := &d.lines[d.lineOf(i)]
	ln.value = stored
	ln.dirty = true
}

// SetKey replaces the stored key of the i-th entry.
func (d *Document) SetKey(i int, stored string) {
	ln := &d.lines[d.lineOf(i)]
	ln.key = stored
	ln.dirty = true
}

// Remove deletes the i-th entry.
func (d *Document) Remove(i int) {
	at := d.lineOf(i)
	d.lines = append(d.lines[:at], d.lines[at+1:]...)
}

// InsertAfter inserts e right after the i-th entry. A negative index appends
// e at the end of the document.
func (d *Document) InsertAfter(i int, e Entry) {
	ln := line{kind: lineEntry, key: e.Key, value: e.Value, dirty: true}
	if i < 0 {
		d.lines = append(d.lines, ln)
		return
	}
	at := d.lineOf(i) + 1
	d.lines = append(d.lines, line{})
	copy(d.lines[at+1:], d.lines[at:])
	d.lines[at] = ln
}

// Append adds e at the end of the document.
func (d *Document) Append(e Entry) {
	d.InsertAfter(-1, e)
}

func (d *Document) lineOf(i int) int {
	n := 0
	for at, ln := range d.lines {
		if ln.kind != lineEntry {
			continue
		}
		if n == i {
			return at
		}
		n++
	}
	panic("properties: entry index out of range")
}
