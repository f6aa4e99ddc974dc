package gemini

import (
	"testing"

	"github.com/howard-nolan/geminibridge/internal/request"
	"github.com/stretchr/testify/assert"
)

func tokensFor(texts ...string) []request.Token {
	tokens := make([]request.Token, 0, len(texts))
	for _, s := range texts {
		tokens = append(tokens, request.Token{Text: s})
	}
	return tokens
}

func TestTruncate_WithinLimitsUnchanged(t *testing.T) {
	out := request.GeneratedOutput{
		Text:         "short answer",
		Tokens:       tokensFor("short", " answer"),
		FinishReason: "stop",
	}
	req := &request.Request{MaxTokens: 10}

	got := truncateOutput(out, req)
	assert.Equal(t, out, got)
}

func TestTruncate_StopSequence(t *testing.T) {
	out := request.GeneratedOutput{
		Text:   "one two\nthree",
		Tokens: tokensFor("one", " two", "\nthree"),
	}
	req := &request.Request{StopSequences: []string{"\n"}, MaxTokens: 10}

	got := truncateOutput(out, req)
	assert.Equal(t, "one two", got.Text)
	assert.Equal(t, "stop", got.FinishReason)
	// The token straddling the cut is dropped.
	assert.Equal(t, tokensFor("one", " two"), got.Tokens)
}

func TestTruncate_MaxTokens(t *testing.T) {
	out := request.GeneratedOutput{
		Text:   "a b c d",
		Tokens: tokensFor("a", " b", " c", " d"),
	}
	req := &request.Request{MaxTokens: 2}

	got := truncateOutput(out, req)
	assert.Equal(t, "a b", got.Text)
	assert.Len(t, got.Tokens, 2)
	assert.Equal(t, "length", got.FinishReason)
}

func TestTruncate_Idempotent(t *testing.T) {
	out := request.GeneratedOutput{
		Text:   "a b c d",
		Tokens: tokensFor("a", " b", " c", " d"),
	}
	req := &request.Request{MaxTokens: 3, StopSequences: []string{"c"}}

	once := truncateOutput(out, req)
	twice := truncateOutput(once, req)
	assert.Equal(t, once, twice)
}

func TestTruncate_SkippedWhenEchoing(t *testing.T) {
	// With echo the text carries the prompt prefix, so token offsets no
	// longer line up with the text; truncation leaves it alone.
	out := request.GeneratedOutput{
		Text:   "Q: a very long answer",
		Tokens: tokensFor("a", " very", " long", " answer"),
	}
	req := &request.Request{EchoPrompt: true, MaxTokens: 1}

	got := truncateOutput(out, req)
	assert.Equal(t, out, got)
}

func TestTruncate_NoLimitsNoChange(t *testing.T) {
	out := request.GeneratedOutput{
		Text:   "anything at all",
		Tokens: tokensFor("anything", " at", " all"),
	}
	got := truncateOutput(out, &request.Request{})
	assert.Equal(t, out, got)
}
