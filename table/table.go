// Package table maps the entries of a bundle to translation rows and
// exchanges them with CSV and XLIFF documents.
package table

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// TranslationNeeded is shown as target of rows without a translation.
const TranslationNeeded = "<translation needed>"

// Row is one translation unit.
type Row struct {
	Key    string
	Source string
	Target string
	// Same marks rows whose target equals the source.
	Same bool
	// Missing marks rows without a target translation.
	Missing bool
}

// State of a table.
type State int

// Table states.
const (
	StateEmpty State = iota
	StateBuilt
	StateExported
	StateImportPending
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateBuilt:
		return "BUILT"
	case StateExported:
		return "EXPORTED"
	case StateImportPending:
		return "IMPORT_PENDING"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Format of an exchange document.
type Format int

// Supported formats.
const (
	CSV Format = iota
	XLIFF
)

func (f Format) String() string {
	if f == XLIFF {
		return "xliff"
	}
	return "csv"
}

// FormatFromPath picks the format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV, nil
	case ".xliff", ".xlf":
		return XLIFF, nil
	}
	return CSV, fmt.Errorf("%w: only CSV or XLIFF files are supported: %s", bundle.ErrFormat, path)
}

// Table holds the rows of one source/target language pair.
type Table struct {
	Name       string
	SourceLang string
	TargetLang string
	rows       []Row
	state      State
}

// New creates a table from rows.
func New(name, sourceLang, targetLang string, rows []Row) *Table {
	t := &Table{Name: name, SourceLang: sourceLang, TargetLang: targetLang}
	t.setRows(rows)
	return t
}

// Build creates a table with one row per entry of the source language file
// of b, in file order.
func Build(b *bundle.Bundle, sourceLang, targetLang string) (*Table, error) {
	src := b.Sibling(sourceLang)
	if src == nil {
		return nil, fmt.Errorf("%w: no %s file in bundle %s", bundle.ErrNotFound, sourceLang, b.BaseName)
	}
	var targets map[string]string
	if tgt := b.Sibling(targetLang); tgt != nil {
		targets = tgt.Document().Texts()
	} else {
		log.WithField("bundle", b.BaseName).Warnf("no %s file, all rows need a translation", targetLang)
	}

	var rows []Row
	for _, e := range src.Document().Entries() {
		key := e.Name()
		row := Row{Key: key, Source: e.Text()}
		if v, ok := targets[key]; ok {
			row.Target = v
		} else {
			row.Target = TranslationNeeded
			row.Missing = true
		}
		rows = append(rows, row)
	}
	return New(b.BaseName, sourceLang, targetLang, rows), nil
}

func (t *Table) setRows(rows []Row) {
	t.rows = make([]Row, len(rows))
	for i, r := range rows {
		r.Same = !r.Missing && r.Source == r.Target
		t.rows[i] = r
	}
	t.state = StateBuilt
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// State returns the current state.
func (t *Table) State() State {
	return t.state
}

// keyIndex maps row keys to row indexes. A key repeated in the source file
// maps to all of its rows in file order.
func (t *Table) keyIndex() map[string][]int {
	return lo.GroupBy(lo.Range(len(t.rows)), func(i int) string {
		return t.rows[i].Key
	})
}

// nextRow returns the first row of key that has no target update in c yet.
// Repeated keys are matched by their order in the document.
func nextRow(index map[string][]int, c *Changes, key string) (int, error) {
	rows, ok := index[key]
	if !ok {
		return -1, fmt.Errorf("%w: unknown key %q: %w", bundle.ErrValidation, key, bundle.ErrNotFound)
	}
	for _, i := range rows {
		if _, dup := c.Targets[i]; !dup {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: multiple updates for key %q", bundle.ErrValidation, key)
}

// Export writes all rows in format f.
func (t *Table) Export(w io.Writer, f Format) error {
	if t.state != StateBuilt && t.state != StateExported {
		return fmt.Errorf("cannot export in state %s", t.state)
	}
	var err error
	if f == XLIFF {
		if err := t.checkXLIFF(); err != nil {
			return err
		}
		err = t.exportXLIFF(w)
	} else {
		err = t.exportCSV(w)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", bundle.ErrIO, err)
	}
	t.state = StateExported
	return nil
}

// Changes are validated updates read from a document, addressed by row
// index.
type Changes struct {
	Targets map[int]string
	Keys    map[int]string
}

func newChanges() *Changes {
	return &Changes{Targets: make(map[int]string), Keys: make(map[int]string)}
}

// Import reads and validates a document. Rows are left untouched; the
// returned changes are applied with Apply.
func (t *Table) Import(r io.Reader, f Format) (*Changes, error) {
	if t.state != StateBuilt && t.state != StateExported {
		return nil, fmt.Errorf("cannot import in state %s", t.state)
	}
	var (
		c   *Changes
		err error
	)
	if f == XLIFF {
		c, err = t.importXLIFF(r)
	} else {
		c, err = t.importCSV(r)
	}
	if err != nil {
		return nil, err
	}
	t.state = StateImportPending
	return c, nil
}

// Discard drops a pending import.
func (t *Table) Discard() {
	if t.state == StateImportPending {
		t.state = StateBuilt
	}
}

// RowChange describes a row changed by Apply.
type RowChange struct {
	Index     int
	OldKey    string
	NewKey    string
	OldTarget string
	NewTarget string
}

// KeyChanged reports whether the row got a new key.
func (c RowChange) KeyChanged() bool {
	return c.OldKey != c.NewKey
}

// TargetChanged reports whether the row got a new target.
func (c RowChange) TargetChanged() bool {
	return c.OldTarget != c.NewTarget
}

// Apply writes pending changes into the rows and returns the rows that
// actually changed.
func (t *Table) Apply(c *Changes) ([]RowChange, error) {
	if t.state != StateImportPending {
		return nil, fmt.Errorf("cannot apply in state %s", t.state)
	}
	var changed []RowChange
	for i := range t.rows {
		row := &t.rows[i]
		rc := RowChange{Index: i, OldKey: row.Key, NewKey: row.Key, OldTarget: row.Target, NewTarget: row.Target}
		if v, ok := c.Targets[i]; ok {
			rc.NewTarget = v
		}
		if k, ok := c.Keys[i]; ok && k != "" {
			rc.NewKey = k
		}
		if !rc.KeyChanged() && !rc.TargetChanged() {
			continue
		}
		row.Key = rc.NewKey
		if rc.TargetChanged() {
			row.Target = rc.NewTarget
			row.Missing = row.Target == TranslationNeeded
			row.Same = !row.Missing && row.Source == row.Target
		}
		changed = append(changed, rc)
	}
	t.state = StateBuilt
	return changed, nil
}
