package table

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/spkg/bom"
)

const xliffNamespace = "urn:oasis:names:tc:xliff:document:1.2"

// xmlNamespace is what encoding/xml reports as space of xml:lang.
const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

type xliffDoc struct {
	XMLName xml.Name  `xml:"xliff"`
	Version string    `xml:"version,attr"`
	Xmlns   string    `xml:"xmlns,attr"`
	File    xliffFile `xml:"file"`
}

type xliffFile struct {
	Original   string      `xml:"original,attr"`
	SourceLang string      `xml:"source-language,attr"`
	TargetLang string      `xml:"target-language,attr"`
	DataType   string      `xml:"datatype,attr"`
	Units      []xliffUnit `xml:"body>trans-unit"`
}

type xliffUnit struct {
	ID     string `xml:"id,attr"`
	Source string `xml:"source"`
	Target string `xml:"target"`
}

// isXMLText reports whether s can be written as XML 1.0 character data
// without loss.
func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == '\t', r == '\n', r == '\r':
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}

// checkXLIFF rejects rows that encoding/xml would alter.
func (t *Table) checkXLIFF() error {
	for _, row := range t.rows {
		for _, s := range []string{row.Key, row.Source, row.Target} {
			if !isXMLText(s) {
				return fmt.Errorf("%w: key %q: value %q cannot be written to XLIFF", bundle.ErrFormat, row.Key, s)
			}
		}
	}
	return nil
}

func (t *Table) exportXLIFF(w io.Writer) error {
	doc := xliffDoc{
		Version: "1.2",
		Xmlns:   xliffNamespace,
		File: xliffFile{
			Original:   t.Name,
			SourceLang: t.SourceLang,
			TargetLang: t.TargetLang,
			DataType:   "plaintext",
		},
	}
	for _, row := range t.rows {
		doc.File.Units = append(doc.File.Units, xliffUnit{ID: row.Key, Source: row.Source, Target: row.Target})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

type xliffTag int

const (
	tagInitial xliffTag = iota
	tagFile
	tagTransUnit
	tagTarget
)

func attr(el xml.StartElement, local string) (string, bool) {
	for _, a := range el.Attr {
		if strings.EqualFold(a.Name.Local, local) {
			return a.Value, true
		}
	}
	return "", false
}

func langAttr(el xml.StartElement) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == "lang" && (a.Name.Space == xmlNamespace || a.Name.Space == "xml") {
			return a.Value, true
		}
	}
	return "", false
}

// importXLIFF reads the document as a stream of tags. Only targets in the
// table's target language count.
func (t *Table) importXLIFF(r io.Reader) (*Changes, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bundle.ErrIO, err)
	}

	var (
		keys = t.keyIndex()
		c    = newChanges()
		dec  = xml.NewDecoder(bytes.NewReader(bom.Clean(data)))
		tag  = tagInitial
		key  string
		text strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", bundle.ErrFormat, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch strings.ToLower(el.Name.Local) {
			case "file":
				lang, _ := attr(el, "target-language")
				if lang != t.TargetLang {
					return nil, fmt.Errorf("%w: document target language %q does not match %q",
						bundle.ErrValidation, lang, t.TargetLang)
				}
				tag = tagFile
			case "trans-unit":
				key, _ = attr(el, "id")
				tag = tagTransUnit
			case "target":
				if lang, ok := langAttr(el); !ok || lang == t.TargetLang {
					tag = tagTarget
					text.Reset()
				}
			default:
				tag = tagInitial
			}
		case xml.EndElement:
			local := strings.ToLower(el.Name.Local)
			if tag == tagTarget && local == "target" {
				idx, err := nextRow(keys, c, key)
				if err != nil {
					return nil, err
				}
				c.Targets[idx] = text.String()
			}
			if local == "trans-unit" {
				key = ""
			}
			tag = tagInitial
		case xml.CharData:
			if tag == tagTarget {
				text.Write(el)
			}
		}
	}

	if len(c.Targets) != len(t.rows) {
		return nil, fmt.Errorf("%w: only %d translations provided for %d existing keys",
			bundle.ErrValidation, len(c.Targets), len(t.rows))
	}
	return c, nil
}
