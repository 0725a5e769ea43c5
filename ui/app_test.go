package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"symtrace/adapters/tokenizer"
	"symtrace/domain/connector"
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

func newTestApp() *App {
	dict := connector.Dictionary{
		"mais":     "opposition",
		"pourtant": "opposition",
		"donc":     "conclusion",
	}

	return NewApp(Deps{
		Service:           analysis.NewService(tokenizer.NewRegexTokenizer(), nil),
		Config:            &config.Config{Analysis: config.AnalysisConfig{PermutationSeed: 42, PermutationN: 100}},
		DefaultDictionary: dict,
	})
}

func do(t *testing.T, app *App, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)
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

func uploadCorpus(t *testing.T, app *App) {
	t.Helper()

	rec := do(t, app, http.MethodPost, "/api/corpus?name=essai.txt", testCorpus)
	if rec.Code != http.StatusCreated {
		t.Fatalf("corpus upload status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestStatus(t *testing.T) {
	app := newTestApp()

	rec := do(t, app, http.MethodGet, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["corpus"] != nil {
		t.Errorf("corpus should be nil before upload: %v", payload["corpus"])
	}
	if payload["dictionary"] != "default" {
		t.Errorf("dictionary label = %v", payload["dictionary"])
	}
}

func TestAnalysisWithoutCorpusReturnsInfo(t *testing.T) {
	app := newTestApp()

	for _, target := range []string{
		"/api/segments",
		"/api/indicators?variable=model",
		"/api/tests/ks?variable=model",
		"/api/tests/anova?variable=model",
		"/api/tests/friedman?condition=model&block=prompt",
		"/api/export/indicators.csv?variable=model",
		"/api/report.md?variable=model",
	} {
		rec := do(t, app, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status %d, want 200 info payload", target, rec.Code)
			continue
		}
		payload := decodeBody(t, rec)
		if _, ok := payload["info"]; !ok {
			t.Errorf("%s: expected an info payload, got %v", target, payload)
		}
	}
}

func TestCorpusUploadAndInfo(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/corpus", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	payload := decodeBody(t, rec)
	if payload["name"] != "essai.txt" {
		t.Errorf("name = %v", payload["name"])
	}
	if payload["responses"] != float64(4) {
		t.Errorf("responses = %v, want 4", payload["responses"])
	}
}

func TestCorpusUpload_Invalid(t *testing.T) {
	app := newTestApp()

	rec := do(t, app, http.MethodPost, "/api/corpus", "du texte sans en-tete")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestIndicators(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/indicators?variable=model", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	modalities, ok := payload["modalities"].([]any)
	if !ok || len(modalities) != 2 {
		t.Fatalf("modalities = %v", payload["modalities"])
	}
}

func TestIndicators_VariableRequired(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/indicators", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSegments(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/segments?mode=connectors_and_punctuation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "[mais]") {
		t.Errorf("expected marked boundaries in %s", rec.Body.String())
	}
}

func TestKS(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/tests/ks?variable=model&correction=holm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	pairs, ok := payload["pairs"].([]any)
	if !ok || len(pairs) != 1 {
		t.Fatalf("pairs = %v", payload["pairs"])
	}
}

func TestKS_Permutation(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/tests/ks?variable=model&permutations=50&seed=7", "")
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

func TestAnova(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/tests/anova?variable=model&indicator=lms", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["indicator"] != "lms" {
		t.Errorf("indicator = %v", payload["indicator"])
	}
	if payload["result"] == nil {
		t.Error("expected a result")
	}
}

func TestFriedman(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/tests/friedman?condition=model&block=prompt", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	payload := decodeBody(t, rec)
	if payload["friedman"] == nil {
		t.Errorf("expected a friedman result, got %v", payload)
	}
}

func TestDictionaryLifecycle(t *testing.T) {
	app := newTestApp()

	rec := do(t, app, http.MethodPost, "/api/dictionary?name=reduit", `{"mais": "opposition"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, app, http.MethodGet, "/api/dictionary", "")
	payload := decodeBody(t, rec)
	if payload["name"] != "reduit" {
		t.Errorf("active dictionary = %v, want the custom one", payload["name"])
	}

	rec = do(t, app, http.MethodDelete, "/api/dictionary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("reset status %d", rec.Code)
	}

	rec = do(t, app, http.MethodGet, "/api/dictionary", "")
	payload = decodeBody(t, rec)
	if payload["name"] != "default" {
		t.Errorf("active dictionary = %v, want default after reset", payload["name"])
	}
}

func TestDictionaryUpload_Invalid(t *testing.T) {
	app := newTestApp()

	rec := do(t, app, http.MethodPost, "/api/dictionary", `{"mais": 3}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestLexiconUnavailable(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/indicators?variable=model&tokenization=lexicon", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lexicon") {
		t.Errorf("expected remediation text, got %s", rec.Body.String())
	}
}

func TestExportIndicatorsCSV(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/export/indicators.csv?variable=model", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "modality,") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestReportMarkdown(t *testing.T) {
	app := newTestApp()
	uploadCorpus(t, app)

	rec := do(t, app, http.MethodGet, "/api/report.md?variable=model", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "# ") {
		t.Errorf("expected a markdown document, got %q", rec.Body.String())
	}
	// One indicator observation per response: the omnibus tests must not
	// run on the raw segment-length lists.
	if !strings.Contains(rec.Body.String(), "over 4 observations in 2 groups") {
		t.Errorf("expected the ANOVA to run on per-response indicator values, got %q", rec.Body.String())
	}
}
