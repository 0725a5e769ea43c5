// Package segmentation splits raw text into connector-bounded segments.
//
// Boundaries are derived from a connector dictionary, optionally unioned with
// strong punctuation; a candidate span is only retained when at least one of
// its two boundaries is a genuine connector, so punctuation alone never
// fragments a text.
package segmentation

import (
	"strings"
	"unicode"

	"symtrace/domain/connector"
	"symtrace/domain/segment"
	"symtrace/ports"
)

// StripMetadataLines removes every line whose content begins with four
// asterisks, anywhere in the text. Those lines are corpus metadata headers
// and must neither be segmented nor counted. Lines are removed whole; the
// surrounding content is otherwise untouched.
func StripMetadataLines(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	cleaned := lines[:0:0]
	removed := false

	for _, line := range lines {
		if isMetadataLine(line) {
			removed = true
			continue
		}
		cleaned = append(cleaned, line)
	}

	if !removed {
		return text
	}

	return strings.TrimLeftFunc(strings.Join(cleaned, "\n"), unicode.IsSpace)
}

func isMetadataLine(line string) bool {
	trimmed := strings.TrimLeft(strings.TrimSuffix(line, "\r"), " \t")
	return strings.HasPrefix(trimmed, "****")
}

// Split cuts text into segments bounded by the dictionary connectors, plus
// strong punctuation in ModeConnectorsAndPunctuation. When the text contains
// no connector occurrence at all, the whole trimmed text is returned as a
// single segment: punctuation alone never creates boundaries.
func Split(text string, dict connector.Dictionary, mode segment.SegmentationMode) []segment.Segment {
	if text == "" {
		return nil
	}

	text = StripMetadataLines(text)

	patterns := compilePatterns(dict, mode)
	if patterns == nil {
		return nil
	}

	if !patterns.connector.MatchString(text) {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []segment.Segment{{Text: strings.TrimSpace(text)}}
	}

	return walkBoundaries(text, patterns)
}

// walkBoundaries scans the text left to right and keeps every candidate span
// with at least one genuine connector boundary. Trailing text after the last
// boundary survives only when that boundary was a connector.
func walkBoundaries(text string, patterns *compiledPatterns) []segment.Segment {
	var segments []segment.Segment

	lastEnd := 0
	prev := ""

	for _, loc := range patterns.boundary.FindAllStringIndex(text, -1) {
		candidate := text[lastEnd:loc[0]]
		next := text[loc[0]:loc[1]]

		if strings.TrimSpace(candidate) != "" &&
			(patterns.isConnector(prev) || patterns.isConnector(next)) {
			segments = append(segments, segment.Segment{
				Text: candidate,
				Prev: prev,
				Next: next,
			})
		}

		prev = next
		lastEnd = loc[1]
	}

	trailing := text[lastEnd:]
	if strings.TrimSpace(trailing) != "" && patterns.isConnector(prev) {
		segments = append(segments, segment.Segment{Text: trailing, Prev: prev})
	}

	return segments
}

// SegmentsWithLengths returns each retained segment with its word count.
// Zero-token segments are dropped. A text without any connector occurrence
// yields a single whole-text entry when it tokenizes non-empty, nothing
// otherwise; this call site intentionally differs from Split, which always
// returns the whole text in the degenerate case.
func SegmentsWithLengths(text string, dict connector.Dictionary, mode segment.SegmentationMode, tok ports.Tokenizer) ([]segment.Segment, error) {
	if text == "" {
		return nil, nil
	}

	text = StripMetadataLines(text)

	patterns := compilePatterns(dict, mode)
	if patterns == nil {
		return nil, nil
	}

	if !patterns.connector.MatchString(text) {
		tokens, err := tok.Tokenize(text)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			return nil, nil
		}
		return []segment.Segment{{
			Text:      strings.TrimSpace(text),
			WordCount: len(tokens),
		}}, nil
	}

	var measured []segment.Segment

	for _, seg := range walkBoundaries(text, patterns) {
		tokens, err := tok.Tokenize(seg.Text)
		if err != nil {
			return nil, err
		}
		if len(tokens) == 0 {
			continue
		}

		seg.Text = strings.TrimSpace(seg.Text)
		seg.WordCount = len(tokens)
		measured = append(measured, seg)
	}

	return measured, nil
}

// WordLengths returns only the word counts of the retained segments.
func WordLengths(text string, dict connector.Dictionary, mode segment.SegmentationMode, tok ports.Tokenizer) ([]int, error) {
	segments, err := SegmentsWithLengths(text, dict, mode, tok)
	if err != nil {
		return nil, err
	}

	lengths := make([]int, 0, len(segments))
	for _, seg := range segments {
		lengths = append(lengths, seg.WordCount)
	}

	return lengths, nil
}
