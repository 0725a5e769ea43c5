package stattest

import "fmt"

// Correction selects a multiple-comparison correction method.
type Correction int

const (
	CorrectionNone Correction = iota
	CorrectionBonferroni
	CorrectionHolm
	CorrectionBenjaminiHochberg
)

// String returns the wire name of the correction method.
func (c Correction) String() string {
	switch c {
	case CorrectionNone:
		return "none"
	case CorrectionBonferroni:
		return "bonferroni"
	case CorrectionHolm:
		return "holm"
	case CorrectionBenjaminiHochberg:
		return "fdr_bh"
	default:
		return fmt.Sprintf("correction(%d)", int(c))
	}
}

// ParseCorrection converts a wire name into a Correction.
func ParseCorrection(s string) (Correction, error) {
	switch s {
	case "", "none":
		return CorrectionNone, nil
	case "bonferroni":
		return CorrectionBonferroni, nil
	case "holm":
		return CorrectionHolm, nil
	case "fdr_bh":
		return CorrectionBenjaminiHochberg, nil
	default:
		return 0, fmt.Errorf("unknown correction method %q", s)
	}
}

// ECDFPoint is one step of an empirical cumulative distribution function.
type ECDFPoint struct {
	Length     float64 `json:"length"`
	Cumulative float64 `json:"cumulative"`
}

// MaxGap locates the point of maximal absolute distance between two ECDFs.
type MaxGap struct {
	Length      float64 `json:"length"`
	ProportionA float64 `json:"proportion_a"`
	ProportionB float64 `json:"proportion_b"`
	Gap         float64 `json:"gap"`
}

// KSResult is the outcome of a two-sample Kolmogorov-Smirnov test.
type KSResult struct {
	D            float64     `json:"d"`
	PValue       float64     `json:"p_value"`
	NA           int         `json:"n_a"`
	NB           int         `json:"n_b"`
	MaxGap       *MaxGap     `json:"max_gap,omitempty"`
	ECDFA        []ECDFPoint `json:"ecdf_a,omitempty"`
	ECDFB        []ECDFPoint `json:"ecdf_b,omitempty"`
	PermutationP *float64    `json:"permutation_p,omitempty"`
}

// AnovaResult is the outcome of a one-way ANOVA.
type AnovaResult struct {
	F         float64 `json:"f"`
	PValue    float64 `json:"p_value"`
	DFBetween int     `json:"df_between"`
	DFWithin  int     `json:"df_within"`
	TotalN    int     `json:"total_n"`
	Groups    int     `json:"groups"`
}

// KruskalResult is the outcome of a Kruskal-Wallis rank test.
type KruskalResult struct {
	H      float64 `json:"h"`
	PValue float64 `json:"p_value"`
	TotalN int     `json:"total_n"`
}

// MannWhitneyResult is the outcome of a two-sided Mann-Whitney U test.
type MannWhitneyResult struct {
	U      float64 `json:"u"`
	PValue float64 `json:"p_value"`
	NA     int     `json:"n_a"`
	NB     int     `json:"n_b"`
}

// FriedmanResult is the outcome of a Friedman repeated-measures test over a
// complete blocks-by-conditions matrix.
type FriedmanResult struct {
	ChiSquare  float64 `json:"chi_square"`
	PValue     float64 `json:"p_value"`
	KendallW   float64 `json:"kendall_w"`
	Blocks     int     `json:"blocks"`
	Conditions int     `json:"conditions"`
}

// PairResult is one pairwise comparison between two independent modalities.
type PairResult struct {
	ModalityA string  `json:"modality_a"`
	ModalityB string  `json:"modality_b"`
	Statistic float64 `json:"statistic"`
	RawP      float64 `json:"raw_p"`
	AdjustedP float64 `json:"adjusted_p"`
	NA        int     `json:"n_a"`
	NB        int     `json:"n_b"`
	Rejected  bool    `json:"rejected"`
}

// PairedPairResult is one Wilcoxon signed-rank comparison between two
// conditions over matched blocks.
type PairedPairResult struct {
	ConditionA string  `json:"condition_a"`
	ConditionB string  `json:"condition_b"`
	Statistic  float64 `json:"statistic"`
	RawP       float64 `json:"raw_p"`
	AdjustedP  float64 `json:"adjusted_p"`
	N          int     `json:"n"`
	Rejected   bool    `json:"rejected"`
}

// PairedTable is a complete blocks-by-conditions matrix of indicator values.
// Values[i][j] belongs to Blocks[i] under Conditions[j]; no cell is missing.
type PairedTable struct {
	Blocks     []string    `json:"blocks"`
	Conditions []string    `json:"conditions"`
	Values     [][]float64 `json:"values"`
}

// Column returns the values of one condition across all blocks.
func (t PairedTable) Column(j int) []float64 {
	col := make([]float64, len(t.Values))
	for i := range t.Values {
		col[i] = t.Values[i][j]
	}
	return col
}

// IsEmpty reports whether the table carries no usable data.
func (t PairedTable) IsEmpty() bool {
	return len(t.Blocks) == 0 || len(t.Conditions) == 0
}
