package indicator

import "fmt"

// Summary holds the five per-response indicators computed from segment word
// lengths. Values are unrounded; formatting is a display-layer concern.
type Summary struct {
	LMS             float64 `json:"lms"`              // mean segment length in words
	StdDev          float64 `json:"std_dev"`          // population standard deviation
	CV              float64 `json:"cv"`               // std dev / mean, 0 when mean is 0
	Median          float64 `json:"median"`           // median segment length
	ShortProportion float64 `json:"short_proportion"` // share of lengths <= threshold
}

// ResponseIndicators attaches a summary to the modality of the response it
// was computed from. Records are immutable once built.
type ResponseIndicators struct {
	Modality string `json:"modality"`
	Summary
}

// ModalityStats aggregates response indicators across one modality.
type ModalityStats struct {
	Modality            string  `json:"modality"`
	MeanLMS             float64 `json:"mean_lms"`
	MedianOfMedians     float64 `json:"median_of_medians"`
	MeanStdDev          float64 `json:"mean_std_dev"`
	MeanCV              float64 `json:"mean_cv"`
	MeanShortProportion float64 `json:"mean_short_proportion"`
	Responses           int     `json:"responses"`
}

// Indicator names one of the five per-response measures, used to select the
// value carried into paired tables.
type Indicator int

const (
	LMS Indicator = iota
	StdDev
	CV
	Median
	ShortProportion
)

// String returns the wire name of the indicator.
func (i Indicator) String() string {
	switch i {
	case LMS:
		return "lms"
	case StdDev:
		return "std_dev"
	case CV:
		return "cv"
	case Median:
		return "median"
	case ShortProportion:
		return "short_proportion"
	default:
		return fmt.Sprintf("indicator(%d)", int(i))
	}
}

// ParseIndicator converts a wire name into an Indicator.
func ParseIndicator(s string) (Indicator, error) {
	switch s {
	case "lms":
		return LMS, nil
	case "std_dev":
		return StdDev, nil
	case "cv":
		return CV, nil
	case "median":
		return Median, nil
	case "short_proportion":
		return ShortProportion, nil
	default:
		return 0, fmt.Errorf("unknown indicator %q", s)
	}
}

// Value extracts the named indicator from a summary.
func (s Summary) Value(ind Indicator) float64 {
	switch ind {
	case LMS:
		return s.LMS
	case StdDev:
		return s.StdDev
	case CV:
		return s.CV
	case Median:
		return s.Median
	case ShortProportion:
		return s.ShortProportion
	default:
		return 0
	}
}
