// Package tokenizer provides the word-counting strategies used to measure
// segment lengths: a Unicode regex tokenizer and a lexicon-backed linguistic
// tokenizer.
package tokenizer

import (
	"regexp"
)

// wordRun matches maximal runs of Unicode word characters.
var wordRun = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// RegexTokenizer counts words as maximal runs of letters, digits and
// underscores. It is the default, dependency-free strategy.
type RegexTokenizer struct{}

// NewRegexTokenizer creates a regex word tokenizer.
func NewRegexTokenizer() *RegexTokenizer {
	return &RegexTokenizer{}
}

// Tokenize returns the word tokens of text.
func (t *RegexTokenizer) Tokenize(text string) ([]string, error) {
	return wordRun.FindAllString(text, -1), nil
}
