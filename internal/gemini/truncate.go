package gemini

import (
	"strings"

	"github.com/howard-nolan/geminibridge/internal/request"
)

// truncateOutput enforces the request's stop sequences and MaxTokens on
// a normalized completion. It is idempotent: a completion already
// within limits comes back unchanged, and running it twice is the same
// as running it once.
//
// When EchoPrompt is set the completion text starts with the original
// prompt, so text offsets no longer line up with the token sequence
// (which covers only the generated portion). Truncation is skipped in
// that case.
func truncateOutput(out request.GeneratedOutput, req *request.Request) request.GeneratedOutput {
	if req.EchoPrompt {
		return out
	}

	// Cut at the earliest occurrence of any stop sequence.
	for _, stop := range req.StopSequences {
		if stop == "" {
			continue
		}
		if i := strings.Index(out.Text, stop); i >= 0 {
			out.Text = out.Text[:i]
			out.FinishReason = "stop"
		}
	}

	// Drop tokens that now extend past the shortened text. Token texts
	// concatenate to the generated text, so the running length tells us
	// where each token ends.
	total := 0
	for _, tok := range out.Tokens {
		total += len(tok.Text)
	}
	for len(out.Tokens) > 0 && total > len(out.Text) {
		total -= len(out.Tokens[len(out.Tokens)-1].Text)
		out.Tokens = out.Tokens[:len(out.Tokens)-1]
	}

	// Enforce the token budget. MaxTokens == 0 means the caller set no
	// limit.
	if req.MaxTokens > 0 && len(out.Tokens) > req.MaxTokens {
		out.Tokens = out.Tokens[:req.MaxTokens]
		kept := 0
		for _, tok := range out.Tokens {
			kept += len(tok.Text)
		}
		if kept < len(out.Text) {
			out.Text = out.Text[:kept]
		}
		out.FinishReason = "length"
	}

	return out
}
