package util

import (
	"fmt"
	"strings"

	"github.com/l10n-tools/bundle-helper/bundle"
	"github.com/l10n-tools/bundle-helper/table"
)

// BundleStats holds statistics for one language of a bundle, counted
// against the keys of the source language.
type BundleStats struct {
	Bundle   string
	Language string
	// Translated keys have a text differing from the source.
	Translated int
	// Missing keys are absent from the language file.
	Missing int
	// Blank keys are present with an empty or blank text.
	Blank int
	// Same keys have the source text (suspect untranslated).
	Same int
}

// Total returns the number of keys counted.
func (s *BundleStats) Total() int {
	return s.Translated + s.Missing + s.Blank + s.Same
}

// CountBundleStats returns the statistics of every language of b except
// sourceLang, in the bundle's language order.
func CountBundleStats(b *bundle.Bundle, sourceLang string) ([]*BundleStats, error) {
	var result []*BundleStats
	for _, lang := range b.Languages() {
		if lang == sourceLang {
			continue
		}
		t, err := table.Build(b, sourceLang, lang)
		if err != nil {
			return nil, err
		}
		stats := &BundleStats{Bundle: b.BaseName, Language: lang}
		for _, row := range t.Rows() {
			switch {
			case row.Missing:
				stats.Missing++
			case strings.TrimSpace(row.Target) == "":
				stats.Blank++
			case row.Same:
				stats.Same++
			default:
				stats.Translated++
			}
		}
		result = append(result, stats)
	}
	return result, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}

// FormatStatLine formats stats in one line, similar to msgfmt --statistics.
// Only non-zero categories are shown.
func FormatStatLine(stats *BundleStats) string {
	var parts []string
	if stats.Translated > 0 {
		parts = append(parts, plural(stats.Translated, "translated key", "translated keys"))
	}
	if stats.Missing > 0 {
		parts = append(parts, plural(stats.Missing, "missing key", "missing keys"))
	}
	if stats.Blank > 0 {
		parts = append(parts, plural(stats.Blank, "blank key", "blank keys"))
	}
	if stats.Same > 0 {
		parts = append(parts, plural(stats.Same, "same key", "same keys"))
	}
	if len(parts) == 0 {
		return "0 translated keys.\n"
	}
	return strings.Join(parts, ", ") + ".\n"
}
