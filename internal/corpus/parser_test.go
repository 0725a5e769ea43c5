package corpus

import (
	"reflect"
	"testing"

	"symtrace/internal/errors"
)

func TestParse(t *testing.T) {
	content := "**** *model_gpt *prompt_1\n" +
		"Première ligne.\n" +
		"Seconde ligne.\n" +
		"**** *model_claude *prompt_1\n" +
		"Autre réponse."

	corp, err := Parse("essai.txt", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if corp.Name != "essai.txt" {
		t.Errorf("name = %q", corp.Name)
	}
	if len(corp.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(corp.Responses))
	}

	first := corp.Responses[0]
	if first.Text != "Première ligne.\nSeconde ligne." {
		t.Errorf("body = %q", first.Text)
	}
	wantVars := map[string]string{"model": "gpt", "prompt": "1"}
	if !reflect.DeepEqual(first.Variables, wantVars) {
		t.Errorf("variables = %v, want %v", first.Variables, wantVars)
	}
	if first.ID == "" {
		t.Error("response must carry an identifier")
	}

	if corp.Responses[1].Modality("model") != "claude" {
		t.Errorf("second response model = %q", corp.Responses[1].Modality("model"))
	}
}

func TestParse_HeaderVariants(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   map[string]string
	}{
		{
			name:   "underscore in modality",
			header: "**** *model_gpt_4o",
			want:   map[string]string{"model": "gpt_4o"},
		},
		{
			name:   "bare token without underscore",
			header: "**** *temoin",
			want:   map[string]string{"temoin": ""},
		},
		{
			name:   "windows line ending",
			header: "**** *model_gpt\r",
			want:   map[string]string{"model": "gpt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corp, err := Parse("t", tt.header+"\ncorps du texte")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := corp.Responses[0].Variables; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("variables = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_PreambleIgnored(t *testing.T) {
	content := "commentaire avant le premier enregistrement\n" +
		"**** *model_gpt\n" +
		"Texte."

	corp, err := Parse("t", content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corp.Responses) != 1 || corp.Responses[0].Text != "Texte." {
		t.Errorf("unexpected responses: %+v", corp.Responses)
	}
}

func TestParse_EmptyBodyKept(t *testing.T) {
	corp, err := Parse("t", "**** *model_gpt\n\n**** *model_claude\nTexte.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(corp.Responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(corp.Responses))
	}
	if corp.Responses[0].HasText() {
		t.Error("first response should have no text")
	}
}

func TestParse_NoRecords(t *testing.T) {
	_, err := Parse("vide.txt", "du texte sans aucun en-tete")
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.GetCode(err) != errors.CodeValidationError {
		t.Errorf("expected a validation error code, got %q", errors.GetCode(err))
	}
}

func TestCorpusAccessors(t *testing.T) {
	corp, err := Parse("t",
		"**** *model_gpt *prompt_1\na\n"+
			"**** *model_claude *prompt_2\nb\n"+
			"**** *model_gpt *prompt_2\nc\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := corp.Variables(); !reflect.DeepEqual(got, []string{"model", "prompt"}) {
		t.Errorf("variables = %v", got)
	}
	if got := corp.Modalities("model"); !reflect.DeepEqual(got, []string{"claude", "gpt"}) {
		t.Errorf("modalities = %v", got)
	}
}
