package table

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/spkg/bom"
)

const csvHeader = "Source Key,Source Value,Target Value"

// escapeCSV quotes s when it contains a comma, a quote or a line break.
// Quotes inside are doubled.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// unescapeCSV strips the quotes around a quoted field and turns doubled
// quotes inside into single ones. Unquoted fields are returned as they are.
func unescapeCSV(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	return strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
}

// splitCSV splits line on commas outside quotes. Fields keep their quotes.
func splitCSV(line string) []string {
	var (
		fields   []string
		start    int
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				fields = append(fields, line[start:i])
				start = i + 1
			}
		}
	}
	return append(fields, line[start:])
}

func (t *Table) exportCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, csvHeader)
	for _, row := range t.rows {
		fmt.Fprintf(bw, "%s,%s,%s\n", escapeCSV(row.Key), escapeCSV(row.Source), escapeCSV(row.Target))
	}
	return bw.Flush()
}

// csvLine is a logical line and the physical line number it starts on.
type csvLine struct {
	text string
	no   int
}

// csvLines joins physical lines into logical lines: a line continues while
// it holds an odd number of quotes. A carriage return is dropped only where
// a logical line ends.
func csvLines(r io.Reader) ([]csvLine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bundle.ErrIO, err)
	}
	physical := strings.Split(string(bom.Clean(data)), "\n")
	if physical[len(physical)-1] == "" {
		physical = physical[:len(physical)-1]
	}

	var (
		lines   []csvLine
		current strings.Builder
		start   int
		open    bool
	)
	for i, p := range physical {
		if open {
			current.WriteByte('\n')
		} else {
			start = i + 1
		}
		current.WriteString(p)
		open = strings.Count(current.String(), `"`)%2 == 1
		if !open {
			lines = append(lines, csvLine{text: strings.TrimSuffix(current.String(), "\r"), no: start})
			current.Reset()
		}
	}
	if open {
		lines = append(lines, csvLine{text: current.String(), no: start})
	}
	return lines, nil
}

func (t *Table) importCSV(r io.Reader) (*Changes, error) {
	lines, err := csvLines(r)
	if err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		lines = lines[1:]
	}

	keys := t.keyIndex()
	c := newChanges()
	for _, line := range lines {
		fields := splitCSV(line.text)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d: insufficient number of columns", bundle.ErrFormat, line.no)
		}
		idx, err := nextRow(keys, c, unescapeCSV(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line.no, err)
		}
		c.Targets[idx] = unescapeCSV(fields[2])
		if len(fields) > 3 {
			if newKey := unescapeCSV(fields[3]); newKey != "" {
				c.Keys[idx] = newKey
			}
		}
	}

	if len(c.Targets) != len(t.rows) {
		return nil, fmt.Errorf("%w: only %d translations provided for %d existing keys",
			bundle.ErrValidation, len(c.Targets), len(t.rows))
	}
	if len(c.Keys) > 0 && len(c.Keys) != len(t.rows) {
		return nil, fmt.Errorf("%w: only %d key updates provided for %d existing keys",
			bundle.ErrValidation, len(c.Keys), len(t.rows))
	}
	return c, nil
}
