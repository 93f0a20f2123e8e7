package bundle

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// preferredLanguages are moved to the front of language lists, in this
// order.
var preferredLanguages = []string{"en", "fr", "es", "de"}

// DefaultExtensions lists the file extensions of resource files.
var DefaultExtensions = []string{".properties"}

// Stem returns the file name without a known extension.
func Stem(name string, extensions []string) string {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// LanguageOf derives the language code from a resource file name: the part
// after the last underscore of the stem. A trailing uppercase region such as
// "BR" in "messages_pt_BR" is joined with its language ("pt_BR"). Names
// without an underscore, or ending with one, have no language.
func LanguageOf(name string, extensions []string) string {
	stem := Stem(name, extensions)
	i := strings.LastIndexByte(stem, '_')
	if i < 0 || i == len(stem)-1 {
		return ""
	}
	code := stem[i+1:]
	if isRegion(code) {
		head := stem[:i]
		if j := strings.LastIndexByte(head, '_'); j >= 0 && j < len(head)-1 {
			if base := head[j+1:]; isBaseLanguage(base) {
				return base + "_" + code
			}
		}
	}
	return code
}

// BaseNameOf returns the file stem without its language suffix.
func BaseNameOf(name string, extensions []string) string {
	stem := Stem(name, extensions)
	lang := LanguageOf(name, extensions)
	if lang == "" {
		return stem
	}
	return strings.TrimSuffix(stem, "_"+lang)
}

func isRegion(code string) bool {
	if len(code) != 2 || strings.ToUpper(code) != code {
		return false
	}
	_, err := language.ParseRegion(code)
	return err == nil
}

func isBaseLanguage(code string) bool {
	if code == "" || strings.ToLower(code) != code {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}

// OrderLanguages moves the preferred languages to the front. The remaining
// languages keep their order.
func OrderLanguages(langs []string) []string {
	ordered := append([]string(nil), langs...)
	for i := len(preferredLanguages) - 1; i >= 0; i-- {
		lang := preferredLanguages[i]
		if idx := lo.IndexOf(ordered, lang); idx >= 0 {
			ordered = append(ordered[:idx], ordered[idx+1:]...)
			ordered = append([]string{lang}, ordered...)
		}
	}
	return ordered
}

// DisplayName returns the English name of a language code, or the code
// itself when it is unknown.
func DisplayName(code string) string {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return code
	}
	name := display.English.Tags().Name(tag)
	if name == "" {
		return code
	}
	return name
}
