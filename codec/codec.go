// Package codec converts between raw translation text and the escaped form
// stored in .properties files.
package codec

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Escape converts raw text into its stored form.
//
// Characters outside 7-bit ASCII become \uXXXX escapes (UTF-16 units,
// uppercase hex). Newline and carriage return become \n and \r; unless the
// character is the last one or is followed by a space, the original character
// is kept right after its escape as a line break marker. Tab becomes \t and
// backslash becomes \\.
func Escape(raw string) string {
	var b strings.Builder
	runes := []rune(raw)
	for i, r := range runes {
		switch {
		case r > 0x7f:
			if r > 0xffff {
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&b, "\\u%04X\\u%04X", r1, r2)
			} else {
				fmt.Fprintf(&b, "\\u%04X", r)
			}
		case r == '\n' || r == '\r':
			if r == '\n' {
				b.WriteString(`\n`)
			} else {
				b.WriteString(`\r`)
			}
			if i < len(runes)-1 && runes[i+1] != ' ' {
				b.WriteRune(r)
			}
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Unescape converts stored text back into raw text.
func Unescape(stored string) string {
	if !strings.ContainsRune(stored, '\\') {
		return stored
	}

	var b strings.Builder
	for i := 0; i < len(stored); {
		c := stored[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(stored) {
			// A dangling backslash is dropped.
			break
		}
		c = stored[i]
		i++
		switch c {
		case 'u':
			r, n := decodeUnicode(stored[i-2:])
			if n == 0 {
				b.WriteByte('u')
				continue
			}
			b.WriteRune(r)
			i += n - 2
		case 'n', 'r':
			if c == 'n' {
				b.WriteByte('\n')
				if i < len(stored) && stored[i] == '\n' {
					i++
				}
			} else {
				b.WriteByte('\r')
				if i < len(stored) && stored[i] == '\r' {
					i++
				}
			}
		case 't':
			b.WriteByte('\t')
		case 'f':
			b.WriteByte('\f')
		case '\n', '\r':
			// Continuation: skip the line break and the indentation after it.
			if c == '\r' && i < len(stored) && stored[i] == '\n' {
				i++
			}
			for i < len(stored) && isBlank(stored[i]) {
				i++
			}
		default:
			// \<c> stands for <c>, multi-byte runes included.
			r, size := utf8.DecodeRuneInString(stored[i-1:])
			b.WriteRune(r)
			i += size - 1
		}
	}
	return b.String()
}

// decodeUnicode decodes a \uXXXX escape at the start of s, joining a
// surrogate pair when a second escape follows. It returns the rune and the
// number of bytes consumed, or 0 when s does not start with a valid escape.
func decodeUnicode(s string) (rune, int) {
	u, ok := hex4(s)
	if !ok {
		return 0, 0
	}
	r := rune(u)
	if utf16.IsSurrogate(r) {
		if low, ok := hex4(s[6:]); ok {
			if dec := utf16.DecodeRune(r, rune(low)); dec != utf8.RuneError {
				return dec, 12
			}
		}
		return utf8.RuneError, 6
	}
	return r, 6
}

func hex4(s string) (uint16, bool) {
	if len(s) < 6 || s[0] != '\\' || s[1] != 'u' {
		return 0, false
	}
	var v uint16
	for _, c := range []byte(s[2:6]) {
		v <<= 4
		switch {
		case c >= '0' && c <= '9':
			v |= uint16(c - '0')
		case c >= 'a' && c <= 'f':
			v |= uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v |= uint16(c-'A') + 10
		default:
			return 0, false
		}
	}
	return v, true
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f'
}
