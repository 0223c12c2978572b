package compiler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// fieldName derives the schema-facing name of a Go member: an explicit tag
// override wins, otherwise the exported name is lower-camelcased. A leading
// initialism is lowered whole ("IDToken" → "idToken", "ID" → "id").
func fieldName(override, goName string) string {
	if override != "" {
		return override
	}
	return lowerCamel(goName)
}

func lowerCamel(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == len(runes):
		return strings.ToLower(name)
	case upper == 1:
		r, size := utf8.DecodeRuneInString(name)
		return string(unicode.ToLower(r)) + name[size:]
	default:
		// Keep the last upper rune as the start of the next word.
		return strings.ToLower(string(runes[:upper-1])) + string(runes[upper-1:])
	}
}
