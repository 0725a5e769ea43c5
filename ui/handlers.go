package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"symtrace/adapters/battery"
	"symtrace/adapters/dictionary"
	"symtrace/adapters/segmentation"
	"symtrace/domain/connector"
	"symtrace/domain/core"
	"symtrace/domain/corpus"
	"symtrace/domain/indicator"
	"symtrace/domain/segment"
	"symtrace/domain/stattest"
	"symtrace/internal/analysis"
	intcorpus "symtrace/internal/corpus"
	"symtrace/internal/errors"
	"symtrace/ports"
)

const maxUploadBytes = 32 << 20

// infoPayload is the response shape for states that are not errors: a
// missing corpus before upload, a variable with one modality, and so on.
type infoPayload struct {
	Info string `json:"info"`
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeInfo(w http.ResponseWriter, msg string) {
	a.writeJSON(w, http.StatusOK, infoPayload{Info: msg})
}

// writeError maps application error codes onto HTTP statuses. A missing
// external resource is 422 so the client can show the remediation text.
func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidInput, errors.CodeConfigInvalid:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeResourceMissing:
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	c, _, label := a.sessionState()

	payload := map[string]any{
		"dictionary": label,
		"corpus":     nil,
	}
	if c != nil {
		payload["corpus"] = map[string]any{
			"name":      c.Name,
			"responses": len(c.Responses),
			"variables": c.Variables(),
		}
	}
	a.writeJSON(w, http.StatusOK, payload)
}

// handleCorpusUpload parses an IRaMuTeQ file from the request body and makes
// it the session corpus.
func (a *App) handleCorpusUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		a.writeError(w, errors.InvalidInput("failed to read corpus body"))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "uploaded corpus"
	}

	c, err := intcorpus.Parse(name, string(body))
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.mu.Lock()
	a.corpus = c
	a.mu.Unlock()

	if a.corpora != nil {
		if err := a.corpora.Save(r.Context(), c); err != nil {
			a.logger.Warn("failed to persist corpus %s: %v", c.ID, err)
		}
	}

	a.writeJSON(w, http.StatusCreated, map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"responses": len(c.Responses),
		"variables": c.Variables(),
	})
}

func (a *App) handleCorpusInfo(w http.ResponseWriter, r *http.Request) {
	c, _, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	variables := make(map[string][]string)
	for _, v := range c.Variables() {
		variables[v] = c.Modalities(v)
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"id":        c.ID,
		"name":      c.Name,
		"responses": len(c.Responses),
		"variables": variables,
	})
}

// handleDictionaryUpload replaces the session dictionary with a custom one.
func (a *App) handleDictionaryUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		a.writeError(w, errors.InvalidInput("failed to read dictionary body"))
		return
	}

	dict, err := dictionary.Parse(body)
	if err != nil {
		a.writeError(w, err)
		return
	}

	label := r.URL.Query().Get("name")
	if label == "" {
		label = "custom"
	}

	a.mu.Lock()
	a.customDict = dict
	a.dictLabel = label
	a.mu.Unlock()

	a.writeJSON(w, http.StatusCreated, map[string]any{
		"name":       label,
		"connectors": len(dict),
		"labels":     dict.Labels(),
	})
}

func (a *App) handleDictionaryInfo(w http.ResponseWriter, r *http.Request) {
	_, dict, label := a.sessionState()
	a.writeJSON(w, http.StatusOK, map[string]any{
		"name":       label,
		"connectors": dict,
		"labels":     dict.Labels(),
	})
}

func (a *App) handleDictionaryReset(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.customDict = nil
	a.dictLabel = "default"
	a.mu.Unlock()

	a.writeInfo(w, "custom dictionary cleared; the default dictionary is active again")
}

// serviceFor selects the analysis service for the requested tokenization.
func (a *App) serviceFor(r *http.Request) (*analysis.Service, error) {
	mode, err := segment.ParseTokenizationMode(queryOr(r, "tokenization", "regex"))
	if err != nil {
		return nil, errors.InvalidInput(err.Error())
	}
	if mode == segment.TokenizeLexicon {
		if a.lexicon == nil {
			return nil, errors.ResourceMissing(
				"the elision lexicon is not installed; place the lexicon file at the configured LEXICON_FILE path")
		}
		return a.lexicon, nil
	}
	return a.service, nil
}

func queryOr(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func (a *App) handleSegments(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	mode, err := segment.ParseSegmentationMode(queryOr(r, "mode", "connectors"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	type responseSegments struct {
		Header   string   `json:"header"`
		Segments []string `json:"segments"`
	}

	var out []responseSegments
	for _, resp := range c.Responses {
		if !resp.HasText() {
			continue
		}
		segs := segmentation.Split(resp.Text, dict, mode)
		marked := make([]string, len(segs))
		for i, s := range segs {
			marked[i] = s.Marked()
		}
		out = append(out, responseSegments{Header: resp.Header, Segments: marked})
	}

	if len(out) == 0 {
		a.writeInfo(w, "the corpus contains no non-empty responses to segment")
		return
	}
	a.writeJSON(w, http.StatusOK, out)
}

func (a *App) handleIndicators(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	statsRows, ignored, err := svc.ModalityStatistics(c, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(statsRows) == 0 {
		a.writeInfo(w, "no response carries the variable "+opts.Variable+" with a non-empty text")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"variable":   opts.Variable,
		"ignored":    ignored,
		"modalities": statsRows,
	})
}

func (a *App) buildOptions(r *http.Request, dict connector.Dictionary) (analysis.Options, error) {
	mode, err := segment.ParseSegmentationMode(queryOr(r, "mode", "connectors"))
	if err != nil {
		return analysis.Options{}, errors.InvalidInput(err.Error())
	}

	variable := r.URL.Query().Get("variable")
	if variable == "" {
		return analysis.Options{}, errors.InvalidInput("query parameter variable is required")
	}

	return analysis.Options{
		Variable:   variable,
		Dictionary: dict,
		Mode:       mode,
		Modalities: r.URL.Query()["modality"],
	}, nil
}

func (a *App) handleKS(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	correction, err := stattest.ParseCorrection(r.URL.Query().Get("correction"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	byModality, ignored, err := svc.LengthsByModality(c, opts)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(byModality) < 2 {
		a.writeInfo(w, "fewer than two modalities with measurable segments; nothing to compare")
		return
	}

	pairs, err := battery.AllPairsKS(r.Context(), byModality, correction)
	if err != nil {
		a.writeError(w, err)
		return
	}

	payload := map[string]any{"ignored": ignored, "pairs": pairs}

	// Optional permutation refinement on the top pair.
	var seedUsed *int64
	if n, _ := strconv.Atoi(r.URL.Query().Get("permutations")); n > 0 && len(pairs) > 0 {
		seed := a.cfg.Analysis.PermutationSeed
		if s, err := strconv.ParseInt(r.URL.Query().Get("seed"), 10, 64); err == nil {
			seed = s
		}
		stream, err := a.rng.SeededStream(r.Context(), "ks_permutation", seed)
		if err != nil {
			a.writeError(w, err)
			return
		}
		p, err := battery.KSPermutationPValue(r.Context(),
			byModality[pairs[0].ModalityA], byModality[pairs[0].ModalityB],
			battery.PermutationOptions{N: n, Rand: stream})
		if err != nil {
			a.writeError(w, err)
			return
		}
		if p != nil {
			seedUsed = &seed
			refined := battery.KSTwoSample(byModality[pairs[0].ModalityA], byModality[pairs[0].ModalityB])
			refined.PermutationP = p
			payload["permutation_p"] = *p
			payload["permutation_count"] = n
			payload["refined"] = refined
		}
	}

	a.saveRun(r, c, "ks", correction.String(), opts.Variable, ignored, seedUsed, pairs)
	a.writeJSON(w, http.StatusOK, payload)
}

func (a *App) handleAnova(w http.ResponseWriter, r *http.Request) {
	a.handleOmnibus(w, r, func(byGroup map[string][]float64) any {
		return battery.OneWayANOVA(byGroup)
	})
}

func (a *App) handleKruskal(w http.ResponseWriter, r *http.Request) {
	a.handleOmnibus(w, r, func(byGroup map[string][]float64) any {
		return battery.KruskalWallis(byGroup)
	})
}

// handleOmnibus runs one k-group test on the chosen indicator's
// per-response values.
func (a *App) handleOmnibus(w http.ResponseWriter, r *http.Request, run func(map[string][]float64) any) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	ind, err := indicator.ParseIndicator(queryOr(r, "indicator", "lms"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	byGroup, ignored, err := svc.IndicatorByModality(c, opts, ind)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(byGroup) < 2 {
		a.writeInfo(w, "fewer than two modalities with indicator values; nothing to compare")
		return
	}

	result := run(byGroup)
	if isNilResult(result) {
		a.writeInfo(w, "not enough usable observations for the requested test")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"indicator": ind.String(),
		"ignored":   ignored,
		"result":    result,
	})
}

func (a *App) handlePostHoc(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	opts, err := a.buildOptions(r, dict)
	if err != nil {
		a.writeError(w, err)
		return
	}

	ind, err := indicator.ParseIndicator(queryOr(r, "indicator", "lms"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	correction, err := stattest.ParseCorrection(r.URL.Query().Get("correction"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	test := battery.PostHocTTest
	if queryOr(r, "test", "t") == "mannwhitney" {
		test = battery.PostHocMannWhitney
	}

	byGroup, ignored, err := svc.IndicatorByModality(c, opts, ind)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if len(byGroup) < 2 {
		a.writeInfo(w, "fewer than two modalities with indicator values; nothing to compare")
		return
	}

	pairs := battery.PostHocPairwise(byGroup, test, battery.PostHocOptions{
		EqualVar:   r.URL.Query().Get("equal_var") == "true",
		Correction: correction,
	})
	if len(pairs) == 0 {
		a.writeInfo(w, "every pair had too few observations for the requested test")
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"indicator": ind.String(),
		"ignored":   ignored,
		"pairs":     pairs,
	})
}

func (a *App) handleFriedman(w http.ResponseWriter, r *http.Request) {
	c, dict, _ := a.sessionState()
	if c == nil {
		a.writeInfo(w, "no corpus loaded yet; POST an IRaMuTeQ file to /api/corpus")
		return
	}

	svc, err := a.serviceFor(r)
	if err != nil {
		a.writeError(w, err)
		return
	}

	mode, err := segment.ParseSegmentationMode(queryOr(r, "mode", "connectors"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	condition := r.URL.Query().Get("condition")
	block := r.URL.Query().Get("block")
	if condition == "" || block == "" {
		a.writeError(w, errors.InvalidInput("query parameters condition and block are required"))
		return
	}

	ind, err := indicator.ParseIndicator(queryOr(r, "indicator", "lms"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	correction, err := stattest.ParseCorrection(r.URL.Query().Get("correction"))
	if err != nil {
		a.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	table, excluded, ignored, err := svc.BuildPairedTable(c, analysis.PairedOptions{
		ConditionVariable: condition,
		BlockVariable:     block,
		Dictionary:        dict,
		Mode:              mode,
		Indicator:         ind,
		Aggregation:       queryOr(r, "aggregation", "mean"),
		Conditions:        r.URL.Query()["condition_value"],
		Blocks:            r.URL.Query()["block_value"],
	})
	if err != nil {
		a.writeError(w, err)
		return
	}

	result := battery.Friedman(table)
	if result == nil {
		a.writeInfo(w, "the paired table needs at least two complete blocks and two conditions")
		return
	}

	posthoc := battery.WilcoxonPairwise(table, correction)

	a.writeJSON(w, http.StatusOK, map[string]any{
		"indicator":       ind.String(),
		"ignored":         ignored,
		"excluded_blocks": excluded,
		"table":           table,
		"friedman":        result,
		"wilcoxon":        posthoc,
	})
}

// saveRun persists an analysis run when a result repository is configured.
func (a *App) saveRun(r *http.Request, c *corpus.Corpus, family, correction, variable string, ignored int, seed *int64, pairs []stattest.PairResult) {
	if a.results == nil {
		return
	}

	runID := core.RunID(core.NewID())
	run := &ports.AnalysisRun{
		ID:         runID,
		CorpusID:   c.ID,
		Variable:   variable,
		TestFamily: family,
		Correction: correction,
		Seed:       seed,
		Ignored:    ignored,
		CreatedAt:  core.Now(),
	}

	if err := a.results.SaveRun(r.Context(), run); err != nil {
		a.logger.Warn("failed to persist run: %v", err)
		return
	}
	if err := a.results.SavePairResults(r.Context(), runID, pairs); err != nil {
		a.logger.Warn("failed to persist pair results: %v", err)
	}
}

func isNilResult(v any) bool {
	switch r := v.(type) {
	case *stattest.AnovaResult:
		return r == nil
	case *stattest.KruskalResult:
		return r == nil
	default:
		return v == nil
	}
}
