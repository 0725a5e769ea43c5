package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"symtrace/adapters/tokenizer"
	"symtrace/internal/analysis"
	"symtrace/internal/config"
)

const testCorpus = "**** *model_gpt *prompt_1\n" +
	"Il avance mais il hésite. Pourtant il continue sur sa lancée sans trop y croire.\n" +
	"**** *model_claude *prompt_1\n" +
	"Il réfléchit longuement donc il attend la suite des événements avec calme.\n" +
	"**** *model_gpt *prompt_2\n" +
	"Le modèle répond mais la question reste ouverte donc le débat continue encore.\n" +
	"**** *model_claude *prompt_2\n" +
	"La réponse arrive mais elle reste partielle pourtant le fond est correct.\n"

func newTestServer() *Server {
	cfg := &config.Config{}
	cfg.Server.GinMode = "test"
	svc := analysis.NewService(tokenizer.NewRegexTokenizer(), nil)
	return NewServer(cfg, svc, nil, nil)
}

func post(t *testing.T, s *Server, target string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("encoding request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(string(payload)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return payload
}

func baseRequest() map[string]any {
	return map[string]any{
		"corpus": testCorpus,
		"dictionary": map[string]string{
			"mais":     "opposition",
			"pourtant": "opposition",
			"donc":     "conclusion",
		},
		"variable": "model",
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestSegmentsEndpoint(t *testing.T) {
	s := newTestServer()

	rec := post(t, s, "/v1/segments", baseRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	responses, ok := payload["responses"].([]any)
	if !ok || len(responses) != 4 {
		t.Fatalf("responses = %v", payload["responses"])
	}
}

func TestIndicatorsEndpoint(t *testing.T) {
	s := newTestServer()

	rec := post(t, s, "/v1/indicators", baseRequest())
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	modalities, ok := payload["modalities"].([]any)
	if !ok || len(modalities) != 2 {
		t.Fatalf("modalities = %v", payload["modalities"])
	}
}

func TestIndicatorsEndpoint_Validation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantMsg string
	}{
		{
			name:    "missing corpus",
			mutate:  func(m map[string]any) { delete(m, "corpus") },
			wantMsg: "Corpus",
		},
		{
			name:    "missing variable",
			mutate:  func(m map[string]any) { delete(m, "variable") },
			wantMsg: "variable",
		},
		{
			name:    "unknown mode",
			mutate:  func(m map[string]any) { m["mode"] = "sentences" },
			wantMsg: "segmentation mode",
		},
		{
			name:    "corpus without records",
			mutate:  func(m map[string]any) { m["corpus"] = "pas d'en-tete ici" },
			wantMsg: "IRaMuTeQ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := baseRequest()
			tt.mutate(body)

			rec := post(t, s, "/v1/indicators", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.wantMsg) {
				t.Errorf("error body %q missing %q", rec.Body.String(), tt.wantMsg)
			}
		})
	}
}

func TestKSEndpoint(t *testing.T) {
	s := newTestServer()

	body := baseRequest()
	body["correction"] = "holm"

	rec := post(t, s, "/v1/tests/ks", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	pairs, ok := payload["pairs"].([]any)
	if !ok || len(pairs) != 1 {
		t.Fatalf("pairs = %v", payload["pairs"])
	}
}

func TestKSEndpoint_Permutation(t *testing.T) {
	s := newTestServer()

	body := baseRequest()
	body["permutations"] = 50
	body["seed"] = 42

	rec := post(t, s, "/v1/tests/ks", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if _, ok := payload["permutation_p"]; !ok {
		t.Errorf("expected a permutation estimate, got %v", payload)
	}

	refined, ok := payload["refined"].(map[string]any)
	if !ok {
		t.Fatalf("expected the refined top pair, got %v", payload)
	}
	if refined["permutation_p"] != payload["permutation_p"] {
		t.Errorf("refined permutation_p = %v, want %v", refined["permutation_p"], payload["permutation_p"])
	}
}

func TestOmnibusEndpoint(t *testing.T) {
	s := newTestServer()

	body := baseRequest()
	body["test"] = "kruskal"
	body["posthoc"] = "mannwhitney"
	body["correction"] = "fdr_bh"

	rec := post(t, s, "/v1/tests/omnibus", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["kruskal"] == nil {
		t.Error("expected a kruskal result")
	}
	if payload["posthoc"] == nil {
		t.Error("expected post-hoc pairs")
	}
	if payload["anova"] != nil {
		t.Error("anova must not run when kruskal was requested")
	}
}

func TestFriedmanEndpoint(t *testing.T) {
	s := newTestServer()

	body := baseRequest()
	delete(body, "variable")
	body["condition"] = "model"
	body["block"] = "prompt"

	rec := post(t, s, "/v1/tests/friedman", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["friedman"] == nil {
		t.Errorf("expected a friedman result, got %v", payload)
	}
}

func TestLexiconTokenizationUnavailable(t *testing.T) {
	s := newTestServer()

	body := baseRequest()
	body["tokenization"] = "lexicon"

	rec := post(t, s, "/v1/indicators", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", rec.Code, rec.Body.String())
	}
}
