package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"symtrace/internal/errors"
)

// LexiconTokenizer is the linguistic word tokenizer. It splits on whitespace,
// detaches elision prefixes listed in its lexicon resource (l', d', qu'...),
// and discards punctuation-only tokens.
//
// The lexicon is loaded once at construction and shared read-only afterwards,
// so a single instance is safe for concurrent use. Construction fails with a
// RESOURCE_MISSING error when the lexicon file is not installed; callers must
// surface that as a recoverable condition, not a crash.
type LexiconTokenizer struct {
	elisions map[string]bool
}

// NewLexiconTokenizer loads the lexicon resource at path and builds the
// tokenizer. The file lists one elision prefix per line; blank lines and
// lines starting with '#' are ignored.
func NewLexiconTokenizer(path string) (*LexiconTokenizer, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ResourceMissing(fmt.Sprintf(
				"tokenizer lexicon %q is missing: install the lexicon file or switch to regex tokenization", path))
		}
		return nil, errors.Wrapf(err, "opening tokenizer lexicon %q", path)
	}
	defer file.Close()

	elisions := make(map[string]bool)
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		elisions[strings.ToLower(line)] = true
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading tokenizer lexicon %q", path)
	}

	return &LexiconTokenizer{elisions: elisions}, nil
}

// Tokenize returns the word tokens of text, with elision prefixes split off
// and punctuation-only tokens dropped.
func (t *LexiconTokenizer) Tokenize(text string) ([]string, error) {
	var tokens []string

	for _, raw := range strings.FieldsFunc(text, unicode.IsSpace) {
		word := strings.TrimFunc(raw, isTokenPunct)
		if word == "" {
			continue
		}

		prefix, rest := t.splitElision(word)
		if prefix != "" {
			tokens = append(tokens, prefix)
		}
		if rest != "" {
			tokens = append(tokens, rest)
		}
	}

	return tokens, nil
}

// splitElision detaches a leading elision prefix when the lexicon knows it.
func (t *LexiconTokenizer) splitElision(word string) (string, string) {
	for _, sep := range []string{"'", "’"} {
		idx := strings.Index(word, sep)
		if idx < 0 {
			continue
		}

		prefix := word[:idx+len(sep)]
		if t.elisions[strings.ToLower(strings.ReplaceAll(prefix, "’", "'"))] {
			return prefix, word[idx+len(sep):]
		}
	}

	return "", word
}

func isTokenPunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
