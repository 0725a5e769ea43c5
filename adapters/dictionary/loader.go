// Package dictionary loads connector dictionaries from JSON files.
//
// A dictionary file is a flat JSON object mapping connector forms to
// category labels, for example {"mais": "opposition", "\n": "rupture"}.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"

	"symtrace/domain/connector"
	"symtrace/internal/errors"
)

// Parse decodes a dictionary from raw JSON and normalizes it. The input
// must be a flat object with string values; anything else is rejected with
// a validation error describing what was found.
func Parse(data []byte) (connector.Dictionary, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.ValidationError(fmt.Sprintf(
			"dictionary must be a JSON object of connector to label: %v", err))
	}

	entries := make(map[string]string, len(raw))
	for key, value := range raw {
		label, ok := value.(string)
		if !ok {
			return nil, errors.ValidationError(fmt.Sprintf(
				"dictionary entry %q has a non-string label (%T); every value must be a category name", key, value))
		}
		entries[key] = label
	}

	dict := connector.Normalize(entries)
	if len(dict) == 0 {
		return nil, errors.ValidationError("dictionary is empty after removing blank connectors")
	}
	return dict, nil
}

// LoadFile reads and parses a dictionary file.
func LoadFile(path string) (connector.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ResourceMissing(fmt.Sprintf(
				"dictionary file %s not found; provide a JSON object of connector to label", path))
		}
		return nil, errors.Wrapf(err, "failed to read dictionary file %s", path)
	}
	return Parse(data)
}
