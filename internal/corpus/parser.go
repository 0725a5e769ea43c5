// Package corpus parses IRaMuTeQ-formatted corpus files into responses.
//
// A corpus is a sequence of records. Each record opens with a header line
// beginning with "****" whose *variable_modality tokens tag the response,
// followed by the response text up to the next header:
//
//	**** *model_gpt *prompt_1
//	Texte de la réponse...
package corpus

import (
	"fmt"
	"strings"

	"symtrace/domain/core"
	domcorpus "symtrace/domain/corpus"
	"symtrace/internal/errors"
)

const headerPrefix = "****"

// Parse splits raw corpus content into responses. Content before the first
// header is ignored. A corpus with no header at all is rejected, since
// nothing could be grouped by modality downstream.
func Parse(name, content string) (*domcorpus.Corpus, error) {
	var responses []domcorpus.Response
	var current *domcorpus.Response
	var body []string

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(strings.Join(body, "\n"))
		responses = append(responses, *current)
		current = nil
		body = nil
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if strings.HasPrefix(trimmed, headerPrefix) {
			flush()
			current = &domcorpus.Response{
				ID:        core.ResponseID(core.NewID()),
				Header:    trimmed,
				Variables: parseHeaderVariables(trimmed),
			}
			continue
		}
		if current != nil {
			body = append(body, strings.TrimSuffix(line, "\r"))
		}
	}
	flush()

	if len(responses) == 0 {
		return nil, errors.ValidationError(fmt.Sprintf(
			"no IRaMuTeQ records found in %s; each response must open with a **** *variable_modality line", name))
	}

	return &domcorpus.Corpus{
		ID:        core.CorpusID(core.NewID()),
		Name:      name,
		Responses: responses,
	}, nil
}

// parseHeaderVariables extracts variable/modality pairs from a header line.
// Tokens of the form *variable_modality split at the first underscore;
// tokens without one are kept under their bare name with an empty modality.
func parseHeaderVariables(header string) map[string]string {
	vars := make(map[string]string)
	for _, token := range strings.Fields(header) {
		if !strings.HasPrefix(token, "*") || token == headerPrefix {
			continue
		}
		token = strings.TrimPrefix(token, "*")
		if token == "" {
			continue
		}
		if idx := strings.Index(token, "_"); idx > 0 {
			vars[token[:idx]] = token[idx+1:]
		} else {
			vars[token] = ""
		}
	}
	return vars
}
