// Package tokenizer defines the tokenization capability the adapter
// consumes. Tokenization is an injected dependency — the adapter never
// cares how tokens are produced, only that the same text always yields
// the same token sequence.
package tokenizer

import "unicode"

// Tokenizer converts text into a sequence of raw token strings.
// tokenizerID names the tokenization scheme to use; implementations
// backed by a single scheme may ignore it.
type Tokenizer interface {
	Tokenize(text, tokenizerID string) ([]string, error)
}

// Simple is a whitespace splitter used as the default local tokenizer.
// It cuts at every space→non-space transition, so trailing whitespace
// sticks to the token before it and the tokens always concatenate back
// to the original text. The truncation logic relies on that property
// when it trims text to match a shortened token sequence.
//
// It is a stand-in, not a real model tokenizer. Anything that speaks
// the Tokenizer interface (a sentencepiece binding, a remote
// tokenization service) plugs in at the same seam.
type Simple struct{}

// Tokenize splits text at every space→non-space transition.
func (Simple) Tokenize(text, _ string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	var tokens []string
	runes := []rune(text)
	start := 0
	for i := 1; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) && unicode.IsSpace(runes[i-1]) {
			tokens = append(tokens, string(runes[start:i]))
			start = i
		}
	}
	return append(tokens, string(runes[start:])), nil
}
