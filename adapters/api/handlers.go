package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"symtrace/adapters/battery"
	"symtrace/adapters/segmentation"
	"symtrace/domain/connector"
	"symtrace/domain/corpus"
	"symtrace/domain/indicator"
	"symtrace/domain/segment"
	"symtrace/domain/stattest"
	"symtrace/internal/analysis"
	intcorpus "symtrace/internal/corpus"
	"symtrace/internal/errors"
)

// analyzeRequest is the common request body of the analysis endpoints.
type analyzeRequest struct {
	Corpus       string            `json:"corpus" binding:"required"`
	CorpusName   string            `json:"corpus_name"`
	Dictionary   map[string]string `json:"dictionary" binding:"required"`
	Variable     string            `json:"variable"`
	Mode         string            `json:"mode"`
	Tokenization string            `json:"tokenization"`
	Indicator    string            `json:"indicator"`
	Correction   string            `json:"correction"`

	// Omnibus selection: "anova" or "kruskal", with optional post-hoc.
	Test     string `json:"test"`
	PostHoc  string `json:"posthoc"`
	EqualVar bool   `json:"equal_var"`

	// Friedman inputs.
	Condition   string `json:"condition"`
	Block       string `json:"block"`
	Aggregation string `json:"aggregation"`

	// Permutation refinement.
	Permutations int    `json:"permutations"`
	Seed         *int64 `json:"seed"`
}

// parsed holds the decoded request pieces shared by all endpoints.
type parsed struct {
	corpus    *corpus.Corpus
	dict      connector.Dictionary
	mode      segment.SegmentationMode
	indicator indicator.Indicator
	corr      stattest.Correction
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeResourceMissing:
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

// decode binds and validates the shared request fields.
func (s *Server) decode(c *gin.Context) (*analyzeRequest, *parsed, bool) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortWithError(c, errors.InvalidInput(err.Error()))
		return nil, nil, false
	}

	name := req.CorpusName
	if name == "" {
		name = "request corpus"
	}

	corp, err := intcorpus.Parse(name, req.Corpus)
	if err != nil {
		s.abortWithError(c, err)
		return nil, nil, false
	}

	dict := connector.Normalize(req.Dictionary)
	if len(dict) == 0 {
		s.abortWithError(c, errors.ValidationError("dictionary is empty after removing blank connectors"))
		return nil, nil, false
	}

	mode := segment.ModeConnectors
	if req.Mode != "" {
		mode, err = segment.ParseSegmentationMode(req.Mode)
		if err != nil {
			s.abortWithError(c, errors.InvalidInput(err.Error()))
			return nil, nil, false
		}
	}

	ind := indicator.LMS
	if req.Indicator != "" {
		ind, err = indicator.ParseIndicator(req.Indicator)
		if err != nil {
			s.abortWithError(c, errors.InvalidInput(err.Error()))
			return nil, nil, false
		}
	}

	corr, err := stattest.ParseCorrection(req.Correction)
	if err != nil {
		s.abortWithError(c, errors.InvalidInput(err.Error()))
		return nil, nil, false
	}

	return &req, &parsed{corpus: corp, dict: dict, mode: mode, indicator: ind, corr: corr}, true
}

func (s *Server) serviceFor(c *gin.Context, tokenization string) (*analysis.Service, bool) {
	mode := segment.TokenizeRegex
	if tokenization != "" {
		var err error
		mode, err = segment.ParseTokenizationMode(tokenization)
		if err != nil {
			s.abortWithError(c, errors.InvalidInput(err.Error()))
			return nil, false
		}
	}
	if mode == segment.TokenizeLexicon {
		if s.lexicon == nil {
			s.abortWithError(c, errors.ResourceMissing(
				"the elision lexicon is not installed; place the lexicon file at the configured LEXICON_FILE path"))
			return nil, false
		}
		return s.lexicon, true
	}
	return s.service, true
}

func (s *Server) handleSegments(c *gin.Context) {
	_, p, ok := s.decode(c)
	if !ok {
		return
	}

	type responseSegments struct {
		Header   string            `json:"header"`
		Segments []segment.Segment `json:"segments"`
	}

	var out []responseSegments
	for _, resp := range p.corpus.Responses {
		if !resp.HasText() {
			continue
		}
		out = append(out, responseSegments{
			Header:   resp.Header,
			Segments: segmentation.Split(resp.Text, p.dict, p.mode),
		})
	}

	c.JSON(http.StatusOK, gin.H{"responses": out})
}

func (s *Server) handleIndicators(c *gin.Context) {
	req, p, ok := s.decode(c)
	if !ok {
		return
	}
	svc, ok := s.serviceFor(c, req.Tokenization)
	if !ok {
		return
	}
	if req.Variable == "" {
		s.abortWithError(c, errors.InvalidInput("variable is required"))
		return
	}

	statsRows, ignored, err := svc.ModalityStatistics(p.corpus, analysis.Options{
		Variable: req.Variable, Dictionary: p.dict, Mode: p.mode,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ignored": ignored, "modalities": statsRows})
}

func (s *Server) handleKS(c *gin.Context) {
	req, p, ok := s.decode(c)
	if !ok {
		return
	}
	svc, ok := s.serviceFor(c, req.Tokenization)
	if !ok {
		return
	}
	if req.Variable == "" {
		s.abortWithError(c, errors.InvalidInput("variable is required"))
		return
	}

	byModality, ignored, err := svc.LengthsByModality(p.corpus, analysis.Options{
		Variable: req.Variable, Dictionary: p.dict, Mode: p.mode,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	pairs, err := battery.AllPairsKS(c.Request.Context(), byModality, p.corr)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	payload := gin.H{"ignored": ignored, "pairs": pairs}

	if req.Permutations > 0 && len(pairs) > 0 {
		perm, err := battery.KSPermutationPValue(c.Request.Context(),
			byModality[pairs[0].ModalityA], byModality[pairs[0].ModalityB],
			battery.PermutationOptions{N: req.Permutations, Seed: req.Seed})
		if err != nil {
			s.abortWithError(c, err)
			return
		}
		if perm != nil {
			refined := battery.KSTwoSample(byModality[pairs[0].ModalityA], byModality[pairs[0].ModalityB])
			refined.PermutationP = perm
			payload["permutation_p"] = *perm
			payload["permutation_count"] = req.Permutations
			payload["refined"] = refined
		}
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleOmnibus(c *gin.Context) {
	req, p, ok := s.decode(c)
	if !ok {
		return
	}
	svc, ok := s.serviceFor(c, req.Tokenization)
	if !ok {
		return
	}
	if req.Variable == "" {
		s.abortWithError(c, errors.InvalidInput("variable is required"))
		return
	}

	byGroup, ignored, err := svc.IndicatorByModality(p.corpus, analysis.Options{
		Variable: req.Variable, Dictionary: p.dict, Mode: p.mode,
	}, p.indicator)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	payload := gin.H{"indicator": p.indicator.String(), "ignored": ignored}

	switch req.Test {
	case "kruskal":
		payload["kruskal"] = battery.KruskalWallis(byGroup)
	default:
		payload["anova"] = battery.OneWayANOVA(byGroup)
	}

	switch req.PostHoc {
	case "t":
		payload["posthoc"] = battery.PostHocPairwise(byGroup, battery.PostHocTTest,
			battery.PostHocOptions{EqualVar: req.EqualVar, Correction: p.corr})
	case "mannwhitney":
		payload["posthoc"] = battery.PostHocPairwise(byGroup, battery.PostHocMannWhitney,
			battery.PostHocOptions{Correction: p.corr})
	}

	c.JSON(http.StatusOK, payload)
}

func (s *Server) handleFriedman(c *gin.Context) {
	req, p, ok := s.decode(c)
	if !ok {
		return
	}
	svc, ok := s.serviceFor(c, req.Tokenization)
	if !ok {
		return
	}
	if req.Condition == "" || req.Block == "" {
		s.abortWithError(c, errors.InvalidInput("condition and block are required"))
		return
	}

	table, excluded, ignored, err := svc.BuildPairedTable(p.corpus, analysis.PairedOptions{
		ConditionVariable: req.Condition,
		BlockVariable:     req.Block,
		Dictionary:        p.dict,
		Mode:              p.mode,
		Indicator:         p.indicator,
		Aggregation:       req.Aggregation,
	})
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	result := battery.Friedman(table)
	if result == nil {
		c.JSON(http.StatusOK, gin.H{
			"info":            "the paired table needs at least two complete blocks and two conditions",
			"ignored":         ignored,
			"excluded_blocks": excluded,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ignored":         ignored,
		"excluded_blocks": excluded,
		"table":           table,
		"friedman":        result,
		"wilcoxon":        battery.WilcoxonPairwise(table, p.corr),
	})
}
