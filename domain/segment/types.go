package segment

import (
	"fmt"
	"strings"
)

// SegmentationMode selects which boundaries split the text.
type SegmentationMode int

const (
	// ModeConnectors splits on dictionary connectors only.
	ModeConnectors SegmentationMode = iota
	// ModeConnectorsAndPunctuation additionally closes segments on strong
	// punctuation, but a segment is only kept when it touches a connector.
	ModeConnectorsAndPunctuation
)

// String returns the wire name of the mode.
func (m SegmentationMode) String() string {
	switch m {
	case ModeConnectors:
		return "connectors"
	case ModeConnectorsAndPunctuation:
		return "connectors_and_punctuation"
	default:
		return fmt.Sprintf("segmentation_mode(%d)", int(m))
	}
}

// ParseSegmentationMode converts a wire name into a mode. Unknown values are
// a construction-time error, never a silent fallback.
func ParseSegmentationMode(s string) (SegmentationMode, error) {
	switch s {
	case "connectors":
		return ModeConnectors, nil
	case "connectors_and_punctuation":
		return ModeConnectorsAndPunctuation, nil
	default:
		return 0, fmt.Errorf("unknown segmentation mode %q", s)
	}
}

// TokenizationMode selects the word-counting strategy.
type TokenizationMode int

const (
	// TokenizeRegex counts maximal runs of Unicode word characters.
	TokenizeRegex TokenizationMode = iota
	// TokenizeLexicon uses the lexicon-backed linguistic tokenizer.
	TokenizeLexicon
)

// String returns the wire name of the mode.
func (m TokenizationMode) String() string {
	switch m {
	case TokenizeRegex:
		return "regex"
	case TokenizeLexicon:
		return "lexicon"
	default:
		return fmt.Sprintf("tokenization_mode(%d)", int(m))
	}
}

// ParseTokenizationMode converts a wire name into a mode.
func ParseTokenizationMode(s string) (TokenizationMode, error) {
	switch s {
	case "regex":
		return TokenizeRegex, nil
	case "lexicon":
		return TokenizeLexicon, nil
	default:
		return 0, fmt.Errorf("unknown tokenization mode %q", s)
	}
}

// Segment is a connector-bounded span of text. Prev and Next hold the
// boundary text on each side (empty at text start/end). WordCount is the
// measured length in words; it is zero until a tokenizer has run.
type Segment struct {
	Text      string `json:"text"`
	Prev      string `json:"prev,omitempty"`
	Next      string `json:"next,omitempty"`
	WordCount int    `json:"word_count"`
}

// Marked renders the segment with its boundaries in brackets for display.
func (s Segment) Marked() string {
	parts := make([]string, 0, 3)

	if s.Prev != "" {
		parts = append(parts, "["+s.Prev+"]")
	}

	parts = append(parts, strings.TrimSpace(s.Text))

	if s.Next != "" {
		parts = append(parts, "["+s.Next+"]")
	}

	return strings.Join(parts, " ")
}
