package ports

// Tokenizer counts and extracts word tokens from a segment of text.
// Implementations must be safe for concurrent use after construction.
type Tokenizer interface {
	// Tokenize returns the word tokens of text. Whitespace-only and
	// punctuation-only tokens are never returned.
	Tokenize(text string) ([]string, error)
}
