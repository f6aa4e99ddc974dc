// Package request defines the provider-agnostic request and result
// models. The HTTP handlers decode incoming JSON into these types, the
// gemini adapter translates them to and from the provider wire format,
// and callers only ever see these shapes — never the provider's own.
package request

import (
	"fmt"

	"github.com/howard-nolan/geminibridge/internal/media"
)

// ---------------------------------------------------------------------------
// Request
// ---------------------------------------------------------------------------

// Request describes one generation or embedding call.
//
// Exactly one of Messages, MultimodalPrompt, or the bare Prompt is the
// effective input channel. When more than one is set, precedence is
// Messages > MultimodalPrompt > Prompt — the adapter picks the first
// one present and ignores the rest.
type Request struct {
	// Model is the fully qualified model identifier; ModelEngine is the
	// bare engine name. The adapter prefers its configured model, then
	// ModelEngine, then Model.
	Model       string `json:"model,omitempty"`
	ModelEngine string `json:"model_engine,omitempty"`

	// Prompt is the plain single-string input channel.
	Prompt string `json:"prompt,omitempty"`

	// Messages is the multi-turn chat input channel.
	Messages []Message `json:"messages,omitempty"`

	// MultimodalPrompt is the mixed text/image input channel.
	MultimodalPrompt []media.Object `json:"multimodal_prompt,omitempty"`

	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`

	// StopSequences cut the completion at the earliest occurrence of
	// any sequence during truncation.
	StopSequences []string `json:"stop_sequences,omitempty"`

	// EchoPrompt prepends the original prompt to the completion text.
	// Tokenization always reflects only the model's own output.
	EchoPrompt bool `json:"echo_prompt,omitempty"`

	// Embedding routes the request down the embedding path instead of
	// the generation path.
	Embedding bool `json:"embedding,omitempty"`
}

// Message is one role-tagged turn of a chat conversation.
type Message struct {
	Role    string  `json:"role"`
	Content Content `json:"content"`
}

// ContentKind discriminates the two shapes a message's content can take.
type ContentKind int

const (
	// ContentText marks plain string content.
	ContentText ContentKind = iota

	// ContentParts marks content that arrives already structured as a
	// sequence of parts. The adapter passes these through verbatim.
	ContentParts
)

// Content is a tagged variant: either a plain string or a sequence of
// pre-structured parts. We carry an explicit Kind instead of inferring
// the shape from which field happens to be set, so every consumer
// switches on the tag.
type Content struct {
	Kind  ContentKind `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Parts []Part      `json:"parts,omitempty"`
}

// TextContent wraps a plain string as message content.
func TextContent(s string) Content {
	return Content{Kind: ContentText, Text: s}
}

// PartsContent wraps pre-structured parts as message content.
func PartsContent(parts ...Part) Content {
	return Content{Kind: ContentParts, Parts: parts}
}

// PartKind discriminates the part variants.
type PartKind int

const (
	// PartText is a plain text part.
	PartText PartKind = iota

	// PartInlineData is an inline binary part: raw bytes plus their
	// MIME type. The adapter base64-encodes the bytes for the wire.
	PartInlineData
)

// Part is one provider-neutral content unit inside a structured message.
type Part struct {
	Kind     PartKind `json:"kind"`
	Text     string   `json:"text,omitempty"`
	MIMEType string   `json:"mime_type,omitempty"`
	Data     []byte   `json:"data,omitempty"`
}

// TextPart builds a text part.
func TextPart(s string) Part {
	return Part{Kind: PartText, Text: s}
}

// InlineDataPart builds an inline binary part.
func InlineDataPart(mimeType string, data []byte) Part {
	return Part{Kind: PartInlineData, MIMEType: mimeType, Data: data}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// ValidationError reports a structurally invalid request. It indicates
// a caller bug, so it is returned as an error rather than folded into
// a failed Result.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// Validate checks the multimodal prompt for structural problems: an
// image without a location or content type, or a text object without
// text. It runs before any cache or network interaction, so a broken
// request fails fast.
//
// Unsupported media kinds are NOT a validation failure — they pass
// through here and are rejected by the adapter with a dedicated error
// that names the type.
func (r *Request) Validate() error {
	for i, obj := range r.MultimodalPrompt {
		switch obj.Kind {
		case media.KindText:
			if obj.Text == "" {
				return &ValidationError{Reason: fmt.Sprintf("multimodal object %d: text object has no text", i)}
			}
		case media.KindImage:
			if obj.Location == "" {
				return &ValidationError{Reason: fmt.Sprintf("multimodal object %d: image has no location", i)}
			}
			if obj.ContentType == "" {
				return &ValidationError{Reason: fmt.Sprintf("multimodal object %d: image has no content type", i)}
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// Token is one output token with its log-probability. Gemini exposes
// no token-level probabilities, so LogProb is always zero here.
type Token struct {
	Text    string  `json:"text"`
	LogProb float64 `json:"logprob"`
}

// GeneratedOutput is one normalized completion.
type GeneratedOutput struct {
	Text         string  `json:"text"`
	LogProb      float64 `json:"logprob"`
	Tokens       []Token `json:"tokens"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// ErrorFlags classify a failure for callers deciding what to do next.
// The adapter's conservative default for provider failures is
// {IsRetriable: false, IsFatal: false}: don't auto-retry blindly, but
// this is not a process-ending failure either.
type ErrorFlags struct {
	IsRetriable bool `json:"is_retriable"`
	IsFatal     bool `json:"is_fatal"`
}

// Result is the uniform outcome of a call. On success, exactly one of
// Completions (generation) or Embedding (embedding) is non-empty,
// selected by Request.Embedding. On failure, Success is false, Error
// is non-empty, and ErrorFlags is set.
type Result struct {
	Success     bool              `json:"success"`
	Cached      bool              `json:"cached"`
	Completions []GeneratedOutput `json:"completions"`
	Embedding   []float64         `json:"embedding"`
	Error       string            `json:"error,omitempty"`
	ErrorFlags  *ErrorFlags       `json:"error_flags,omitempty"`
}
