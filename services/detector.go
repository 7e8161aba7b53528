package services

import (
	"strings"
	"unicode"

	"hostel-analytics/models"
)

// DetectProperty finds which registered property a blob of raw text belongs to.
// Identifiers are tried first, then names (case-insensitive); within each pass
// the first registry entry that matches wins.
func DetectProperty(raw string, registry models.PropertyRegistry) (string, bool) {
	if raw == "" {
		return "", false
	}

	for _, p := range registry {
		if p.ID != "" && strings.Contains(raw, p.ID) {
			return p.Name, true
		}
	}

	lower := strings.ToLower(raw)
	for _, p := range registry {
		if p.Name != "" && strings.Contains(lower, strings.ToLower(p.Name)) {
			return p.Name, true
		}
	}

	return "", false
}

// ResolveProperty applies the operator override before detection.
func ResolveProperty(override, raw string, registry models.PropertyRegistry) (string, bool) {
	if o := strings.TrimSpace(override); o != "" {
		return o, true
	}
	return DetectProperty(raw, registry)
}

// MatchFileName maps a spreadsheet file name (suffix stripped) to a registered
// property. Only a whole-name match (case-insensitive) or an identifier that
// forms its own token counts, so "Arenales" stays "Arenales".
func MatchFileName(base string, registry models.PropertyRegistry) (string, bool) {
	trimmed := strings.TrimSpace(base)
	for _, p := range registry {
		if p.Name != "" && strings.EqualFold(trimmed, p.Name) {
			return p.Name, true
		}
	}

	tokens := strings.FieldsFunc(trimmed, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, p := range registry {
		if p.ID == "" {
			continue
		}
		for _, tok := range tokens {
			if tok == p.ID {
				return p.Name, true
			}
		}
	}
	return "", false
}
