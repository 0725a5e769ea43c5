package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"symtrace/internal/errors"
)

func TestParse(t *testing.T) {
	dict, err := Parse([]byte(`{" si": "condition", "\n": "rupture", "mais": "opposition", "": "vide"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dict) != 3 {
		t.Fatalf("expected 3 entries, got %d: %v", len(dict), dict)
	}
	if dict["si"] != "condition" {
		t.Errorf("padded key not trimmed: %v", dict)
	}
	if dict["\n"] != "rupture" {
		t.Errorf("newline connector lost: %v", dict)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `mais, donc`},
		{name: "array instead of object", data: `["mais", "donc"]`},
		{name: "non-string label", data: `{"mais": 3}`},
		{name: "nested object label", data: `{"mais": {"label": "opposition"}}`},
		{name: "only blank keys", data: `{"": "vide", "  ": "vide"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if errors.GetCode(err) != errors.CodeValidationError {
				t.Errorf("expected a validation error code, got %q", errors.GetCode(err))
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "connectors.json")
	content := `{"mais": "opposition", "donc": "conclusion"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	dict, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dict["mais"] != "opposition" || dict["donc"] != "conclusion" {
		t.Errorf("unexpected dictionary: %v", dict)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.IsResourceMissing(err) {
		t.Errorf("expected a resource-missing error, got %v", err)
	}
}
