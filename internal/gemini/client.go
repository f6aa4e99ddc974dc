// Package gemini adapts provider-agnostic requests to the Gemini API:
// it translates the uniform request model into Gemini's wire format,
// dispatches calls through a compute-on-miss cache so the same request
// is never paid for twice, and normalizes provider responses back into
// the uniform result shape.
package gemini

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/howard-nolan/geminibridge/internal/cache"
	"github.com/howard-nolan/geminibridge/internal/metrics"
	"github.com/howard-nolan/geminibridge/internal/request"
	"github.com/howard-nolan/geminibridge/internal/tokenizer"
)

// DefaultEmbeddingModel is used when the config names no embedding model.
const DefaultEmbeddingModel = "models/embedding-001"

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// ClientConfig carries the collaborators a Client needs. Everything is
// injected: the transport (real or fake), the cache store (memory or
// Redis), and the tokenizer.
type ClientConfig struct {
	Transport Transport
	Cache     cache.Store
	Tokenizer tokenizer.Tokenizer

	// TokenizerID names the tokenization scheme passed to the tokenizer.
	TokenizerID string

	// Model is the default generation model. When empty, the request's
	// ModelEngine (then Model) is used instead.
	Model string

	// EmbeddingModel is the fully qualified embedding model. Defaults
	// to DefaultEmbeddingModel.
	EmbeddingModel string

	// Logger receives warning lines for provider failures. Defaults to
	// the process logger.
	Logger *log.Logger

	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
}

// Client is the caching Gemini adapter. One call flows:
//
//	uniform Request → buildPayload → cache key → cache.Get
//	    (miss → Transport call → stored) → normalize → uniform Result
//
// Calls are synchronous and blocking; the only blocking point is the
// transport call inside the cache's compute function. Concurrent calls
// with the same key collapse into one provider invocation (the store's
// single-flight guarantee).
type Client struct {
	transport      Transport
	cache          cache.Store
	tok            tokenizer.Tokenizer
	tokenizerID    string
	model          string
	embeddingModel string
	logger         *log.Logger
	metrics        *metrics.Metrics
}

// NewClient validates the configuration and returns a ready Client.
// Missing collaborators are construction-time configuration errors,
// not mid-call surprises.
func NewClient(cfg ClientConfig) (*Client, error) {
	switch {
	case cfg.Transport == nil:
		return nil, &ConfigurationError{Message: "transport is required"}
	case cfg.Cache == nil:
		return nil, &ConfigurationError{Message: "cache store is required"}
	case cfg.Tokenizer == nil:
		return nil, &ConfigurationError{Message: "tokenizer is required"}
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Client{
		transport:      cfg.Transport,
		cache:          cfg.Cache,
		tok:            cfg.Tokenizer,
		tokenizerID:    cfg.TokenizerID,
		model:          cfg.Model,
		embeddingModel: cfg.EmbeddingModel,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
	}, nil
}

// modelFor picks the generation model: the configured default wins,
// then the request's bare engine name, then its full model identifier.
func (c *Client) modelFor(req *request.Request) string {
	if c.model != "" {
		return c.model
	}
	if req.ModelEngine != "" {
		return req.ModelEngine
	}
	return req.Model
}

// MakeRequest executes one uniform request and returns one uniform
// result. The error return is reserved for caller bugs found before
// any cache or network interaction (invalid multimodal prompts,
// unsupported media types, unreadable attachments). Provider failures
// never surface as errors: they come back as a Result with
// Success=false, a non-empty Error, and conservative ErrorFlags, so a
// batch caller can keep going after one bad call.
func (c *Client) MakeRequest(ctx context.Context, req *request.Request) (*request.Result, error) {
	if req.Embedding {
		return c.makeEmbeddingRequest(ctx, req)
	}
	return c.makeGenerateRequest(ctx, req)
}

// ---------------------------------------------------------------------------
// Dispatch (shared by both paths)
// ---------------------------------------------------------------------------

// dispatch runs the cache-then-transport step shared by the generation
// and embedding paths: canonicalize the key, ask the store, let the
// store call the transport at most once on a miss, and fold any
// failure into a failed Result.
//
// The returned failed Result is non-nil exactly when the call failed;
// in that case the Response is nil and the caller returns the Result
// as-is. Both paths get identical failure shapes, ErrorFlags included.
func (c *Client) dispatch(key *cacheKey, compute func() (*Response, error)) (*Response, bool, *request.Result) {
	canonical, err := key.canonical()
	if err != nil {
		return nil, false, c.failedResult(err)
	}

	value, cached, err := c.cache.Get(canonical, func() ([]byte, error) {
		resp, err := compute()
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	})
	if err != nil {
		// The sole error-recovery contract: provider and store failures
		// stop here. Log the warning, hand back a failed result, and
		// never let the error escape to the caller.
		c.logger.Printf("warning: gemini request failed: %v", err)
		c.metrics.ProviderError()
		return nil, false, c.failedResult(err)
	}

	if cached {
		c.metrics.CacheHit()
	} else {
		c.metrics.CacheMiss()
	}

	var resp Response
	if err := json.Unmarshal(value, &resp); err != nil {
		c.logger.Printf("warning: corrupt cached gemini response: %v", err)
		return nil, false, c.failedResult(err)
	}
	return &resp, cached, nil
}

// failedResult is the uniform failure shape. The flags are a deliberate
// conservative default: not retriable (don't hammer the provider
// blindly) and not fatal (the caller's process should keep going).
func (c *Client) failedResult(err error) *request.Result {
	return &request.Result{
		Success:     false,
		Cached:      false,
		Completions: []request.GeneratedOutput{},
		Embedding:   []float64{},
		Error:       err.Error(),
		ErrorFlags:  &request.ErrorFlags{IsRetriable: false, IsFatal: false},
	}
}

// ---------------------------------------------------------------------------
// Generation path
// ---------------------------------------------------------------------------

func (c *Client) makeGenerateRequest(ctx context.Context, req *request.Request) (*request.Result, error) {
	// Translation errors are caller bugs and surface as Go errors,
	// before any cache or transport interaction.
	payload, err := buildPayload(req)
	if err != nil {
		return nil, err
	}

	model := c.modelFor(req)
	key, err := generateKey(model, payload, req)
	if err != nil {
		return nil, err
	}

	resp, cached, failed := c.dispatch(key, func() (*Response, error) {
		return c.transport.GenerateContent(ctx, model, payload)
	})
	if failed != nil {
		c.metrics.Request("generate", "failure")
		return failed, nil
	}

	completions := make([]request.GeneratedOutput, 0, len(resp.Candidates))
	for _, cand := range resp.Candidates {
		out, err := c.normalizeCandidate(req, cand)
		if err != nil {
			c.metrics.Request("generate", "failure")
			return c.failedResult(err), nil
		}
		completions = append(completions, out)
	}

	c.metrics.Request("generate", "success")
	return &request.Result{
		Success:     true,
		Cached:      cached,
		Completions: completions,
		Embedding:   []float64{},
	}, nil
}

// normalizeCandidate turns one provider candidate into one uniform
// completion: concatenate the text parts in order, lowercase the finish
// reason, tokenize the generated text, then apply echo and truncation.
func (c *Client) normalizeCandidate(req *request.Request, cand Candidate) (request.GeneratedOutput, error) {
	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		// Non-text parts contribute nothing; their Text is empty.
		sb.WriteString(part.Text)
	}
	text := sb.String()

	// Empty finish reasons pass through empty; everything else is
	// lowercased ("STOP" → "stop").
	finishReason := strings.ToLower(cand.FinishReason)

	// Tokenize the model's own output. Gemini exposes no token-level
	// probabilities, so every token carries a neutral zero logprob.
	rawTokens, err := c.tok.Tokenize(text, c.tokenizerID)
	if err != nil {
		return request.GeneratedOutput{}, err
	}
	tokens := make([]request.Token, 0, len(rawTokens))
	for _, raw := range rawTokens {
		tokens = append(tokens, request.Token{Text: raw, LogProb: 0})
	}

	// Echo AFTER tokenization: the token sequence reflects only the
	// generated text, never the echoed prefix.
	if req.EchoPrompt {
		text = req.Prompt + text
	}

	out := request.GeneratedOutput{
		Text:         text,
		LogProb:      0,
		Tokens:       tokens,
		FinishReason: finishReason,
	}
	return truncateOutput(out, req), nil
}

// ---------------------------------------------------------------------------
// Embedding path
// ---------------------------------------------------------------------------

func (c *Client) makeEmbeddingRequest(ctx context.Context, req *request.Request) (*request.Result, error) {
	key, err := embeddingKey(c.modelFor(req), c.embeddingModel, req)
	if err != nil {
		return nil, err
	}

	resp, cached, failed := c.dispatch(key, func() (*Response, error) {
		return c.transport.EmbedContent(ctx, c.embeddingModel, req.Prompt)
	})
	if failed != nil {
		c.metrics.Request("embedding", "failure")
		return failed, nil
	}

	// A generation-shaped response on the embedding path (or a plain
	// empty one) means the provider answered with something we cannot
	// use. That is a failed result, not a panic or an error: the call
	// boundary stays uniform for batch callers.
	if resp.Embedding == nil {
		c.metrics.Request("embedding", "failure")
		return c.failedResult(&MalformedResponseError{Message: "no embedding values in response"}), nil
	}

	c.metrics.Request("embedding", "success")
	return &request.Result{
		Success:     true,
		Cached:      cached,
		Completions: []request.GeneratedOutput{},
		Embedding:   resp.Embedding.Values,
	}, nil
}
