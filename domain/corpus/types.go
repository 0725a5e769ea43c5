package corpus

import (
	"sort"
	"strings"

	"symtrace/domain/core"
)

// Response is one logical corpus entry: an annotated text preceded by a
// header line carrying its categorical variables.
type Response struct {
	ID        core.ResponseID   `json:"id"`
	Header    string            `json:"header"`
	Variables map[string]string `json:"variables"`
	Text      string            `json:"text"`
}

// Modality returns the modality of the named variable, or "" when the
// response does not carry it.
func (r Response) Modality(variable string) string {
	return r.Variables[variable]
}

// HasText reports whether the response body is non-blank.
func (r Response) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// Corpus is an ordered collection of responses plus its variable inventory.
type Corpus struct {
	ID        core.CorpusID `json:"id"`
	Name      string        `json:"name"`
	Responses []Response    `json:"responses"`
}

// Variables returns the sorted union of variable names across responses.
func (c Corpus) Variables() []string {
	seen := make(map[string]bool)
	var names []string

	for _, r := range c.Responses {
		for name := range r.Variables {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	sort.Strings(names)
	return names
}

// Modalities returns the sorted distinct modalities of one variable.
func (c Corpus) Modalities(variable string) []string {
	seen := make(map[string]bool)
	var values []string

	for _, r := range c.Responses {
		if v, ok := r.Variables[variable]; ok && v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}

	sort.Strings(values)
	return values
}

