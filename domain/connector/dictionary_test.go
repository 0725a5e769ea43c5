package connector

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	dict := Normalize(map[string]string{
		"  mais \t": "opposition",
		"":          "vide",
		"   ":       "vide",
		"\r\n":      "rupture",
		"donc":      "conclusion",
	})

	want := Dictionary{
		"mais": "opposition",
		"\n":   "rupture",
		"donc": "conclusion",
	}
	if !reflect.DeepEqual(dict, want) {
		t.Errorf("got %v, want %v", dict, want)
	}
}

func TestNormalize_NewlineSpellingsCollapse(t *testing.T) {
	dict := Normalize(map[string]string{"\n": "rupture"})
	if dict["\n"] != "rupture" {
		t.Errorf("unix newline lost: %v", dict)
	}

	dict = Normalize(map[string]string{"\r\n": "rupture"})
	if dict["\n"] != "rupture" {
		t.Errorf("windows newline not collapsed onto the canonical key: %v", dict)
	}
}

func TestDictionary_KeysLongestFirst(t *testing.T) {
	dict := Dictionary{
		"que":       "autre",
		"parce que": "cause",
		"si":        "condition",
		"car":       "cause",
	}

	want := []string{"parce que", "car", "que", "si"}
	if got := dict.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDictionary_Labels(t *testing.T) {
	dict := Dictionary{
		"mais":     "opposition",
		"pourtant": "opposition",
		"donc":     "conclusion",
	}

	want := []string{"conclusion", "opposition"}
	if got := dict.Labels(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDictionary_Label(t *testing.T) {
	dict := Dictionary{
		"mais": "opposition",
		"\n":   "rupture",
	}

	tests := []struct {
		name    string
		matched string
		want    string
		wantOK  bool
	}{
		{name: "exact", matched: "mais", want: "opposition", wantOK: true},
		{name: "case insensitive", matched: "MAIS", want: "opposition", wantOK: true},
		{name: "unix newline", matched: "\n", want: "rupture", wantOK: true},
		{name: "windows newline", matched: "\r\n", want: "rupture", wantOK: true},
		{name: "unknown", matched: "donc", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dict.Label(tt.matched)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Label(%q) = %q, %v; want %q, %v", tt.matched, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
