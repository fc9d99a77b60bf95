// Package xmlname provides XML name validation, qualified name splitting,
// and the identifier-style conversion between Go names (underscores) and
// XML names (hyphens).
package xmlname

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

var nameStartByteLUT = [utf8.RuneSelf]bool{
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'_': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true,
	'h': true, 'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true,
	'o': true, 'p': true, 'q': true, 'r': true, 's': true, 't': true, 'u': true,
	'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
}

var nameByteLUT = [utf8.RuneSelf]bool{
	'-': true, '.': true,
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true, 'G': true,
	'H': true, 'I': true, 'J': true, 'K': true, 'L': true, 'M': true, 'N': true,
	'O': true, 'P': true, 'Q': true, 'R': true, 'S': true, 'T': true, 'U': true,
	'V': true, 'W': true, 'X': true, 'Y': true, 'Z': true,
	'_': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true, 'g': true,
	'h': true, 'i': true, 'j': true, 'k': true, 'l': true, 'm': true, 'n': true,
	'o': true, 'p': true, 'q': true, 'r': true, 's': true, 't': true, 'u': true,
	'v': true, 'w': true, 'x': true, 'y': true, 'z': true,
}

func isNameStartRune(r rune) bool {
	if r < utf8.RuneSelf {
		return nameStartByteLUT[r]
	}
	return unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	if r < utf8.RuneSelf {
		return nameByteLUT[r]
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

// Valid reports whether name is a colon-free XML name.
func Valid(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !isNameStartRune(r) {
				return false
			}
			continue
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

// SplitQName splits a tag given as "name" or "prefix:name" and validates
// both halves. The prefix is empty for unprefixed tags.
func SplitQName(tag string) (prefix, local string, err error) {
	prefix, local, found := strings.Cut(tag, ":")
	if !found {
		local, prefix = prefix, ""
	}
	if found && !Valid(prefix) {
		return "", "", fmt.Errorf("invalid prefix %q in XML tag %q", prefix, tag)
	}
	if !Valid(local) {
		return "", "", fmt.Errorf("invalid name %q in XML tag %q", local, tag)
	}
	return prefix, local, nil
}

// ToXML converts a Go identifier style name to XML style by replacing
// underscores with hyphens.
func ToXML(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// ToGo converts an XML style name to Go identifier style by replacing
// hyphens with underscores.
func ToGo(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
