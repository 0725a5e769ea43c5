package connector

import (
	"sort"
	"strings"
)

// NewlineCanonical is the single key under which both newline spellings are
// stored after normalization.
const NewlineCanonical = "\n"

var newlineAliases = map[string]bool{
	"\n":   true,
	"\r\n": true,
}

// Dictionary maps a connector form (word, phrase or the canonical newline) to
// its category label. Keys are unique and already normalized; a Dictionary is
// treated as an immutable snapshot for the duration of an analysis run.
type Dictionary map[string]string

// IsNewline reports whether key is one of the recognized newline spellings.
func IsNewline(key string) bool {
	return newlineAliases[key]
}

// Normalize builds a Dictionary from raw entries. Keys are trimmed of spaces
// and tabs only, so literal newline keys survive; blank keys are dropped and
// the two newline spellings collapse onto NewlineCanonical.
func Normalize(raw map[string]string) Dictionary {
	cleaned := make(Dictionary, len(raw))

	for key, label := range raw {
		trimmed := strings.Trim(key, " \t")
		if trimmed == "" {
			continue
		}

		if IsNewline(trimmed) {
			cleaned[NewlineCanonical] = label
			continue
		}

		cleaned[trimmed] = label
	}

	return cleaned
}

// Keys returns the connector forms sorted longest first, ties broken
// lexicographically. This is the alternation order required for
// longest-match-wins boundary detection.
func (d Dictionary) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	return keys
}

// Labels returns the distinct category labels in ascending order.
func (d Dictionary) Labels() []string {
	seen := make(map[string]bool, len(d))
	labels := make([]string, 0, len(d))

	for _, label := range d {
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	sort.Strings(labels)
	return labels
}

// Label resolves the category label for a matched connector form, accepting
// either newline spelling and ignoring case for word connectors.
func (d Dictionary) Label(matched string) (string, bool) {
	if IsNewline(matched) {
		label, ok := d[NewlineCanonical]
		return label, ok
	}

	if label, ok := d[matched]; ok {
		return label, true
	}

	lower := strings.ToLower(matched)
	for key, label := range d {
		if strings.ToLower(key) == lower {
			return label, true
		}
	}

	return "", false
}
