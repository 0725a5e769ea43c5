package segmentation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"symtrace/domain/connector"
	"symtrace/domain/segment"
)

// punctuationClass matches runs of strong punctuation used as closing
// boundaries in ModeConnectorsAndPunctuation.
const punctuationClass = `[.!?;:]+`

// compiledPatterns holds the boundary matchers derived from one dictionary.
type compiledPatterns struct {
	// connector finds connector occurrences anywhere in the text.
	connector *regexp.Regexp
	// connectorFull decides whether a boundary match is a genuine connector
	// (as opposed to pure punctuation).
	connectorFull *regexp.Regexp
	// boundary finds all segment boundaries for the selected mode.
	boundary *regexp.Regexp
}

// connectorRegex renders one connector as a regex alternative. The newline
// connector matches both Unix and Windows forms; word-boundary anchors are
// added only when both ends of the connector are word characters, since \b
// never matches next to punctuation or whitespace forms.
func connectorRegex(key string) string {
	if key == "" {
		return ""
	}

	if connector.IsNewline(key) {
		return `\r?\n`
	}

	escaped := regexp.QuoteMeta(key)

	if wordBounded(key) {
		return `\b` + escaped + `\b`
	}

	return escaped
}

// wordBounded reports whether the connector starts and ends with characters
// that \b can anchor against.
func wordBounded(key string) bool {
	first, _ := utf8.DecodeRuneInString(key)
	last, _ := utf8.DecodeLastRuneInString(key)
	return isWordRune(first) && isWordRune(last)
}

func isWordRune(r rune) bool {
	// RE2's \b is ASCII-defined; anchoring a connector whose edge falls
	// outside [0-9A-Za-z_] would make it unmatchable next to whitespace.
	return r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// compilePatterns builds the matchers for a dictionary. Returns nil when the
// dictionary holds no usable key: segmentation then yields nothing.
func compilePatterns(dict connector.Dictionary, mode segment.SegmentationMode) *compiledPatterns {
	alternatives := make([]string, 0, len(dict))

	// Longest connector first so a short connector sharing a prefix never
	// pre-empts a longer one.
	for _, key := range dict.Keys() {
		if alt := connectorRegex(key); alt != "" {
			alternatives = append(alternatives, alt)
		}
	}

	if len(alternatives) == 0 {
		return nil
	}

	connectorAlt := strings.Join(alternatives, "|")

	patterns := &compiledPatterns{
		connector:     regexp.MustCompile(`(?i)` + connectorAlt),
		connectorFull: regexp.MustCompile(`(?i)^(?:` + connectorAlt + `)$`),
	}

	if mode == segment.ModeConnectorsAndPunctuation {
		patterns.boundary = regexp.MustCompile(`(?i)(?:` + connectorAlt + `)|` + punctuationClass)
	} else {
		patterns.boundary = patterns.connector
	}

	return patterns
}

// isConnector reports whether a boundary match is a genuine connector.
func (p *compiledPatterns) isConnector(boundary string) bool {
	return boundary != "" && p.connectorFull.MatchString(boundary)
}
