package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ---------------------------------------------------------------------------
// Provider transport
// ---------------------------------------------------------------------------

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Transport executes requests against the Gemini API. The client talks
// to this interface so tests can substitute a fake and count calls, and
// so callers can wrap the real transport with their own retry or
// timeout policy. Retry is deliberately NOT implemented here.
type Transport interface {
	// GenerateContent calls models/{model}:generateContent.
	GenerateContent(ctx context.Context, model string, payload *Payload) (*Response, error)

	// EmbedContent calls {model}:embedContent with a single text input.
	// model is fully qualified, e.g. "models/embedding-001".
	EmbedContent(ctx context.Context, model, text string) (*Response, error)
}

// HTTPTransport is the real Transport over HTTP. The API key is held
// here explicitly; there is no process-wide configuration, so two
// transports with different credentials coexist without interfering.
type HTTPTransport struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewHTTPTransport creates a transport ready to call the Gemini API.
// The *http.Client is injected so main.go controls timeouts and tests
// can substitute a recording client. A missing API key is a
// construction-time ConfigurationError, never discovered mid-call.
func NewHTTPTransport(apiKey, baseURL string, client *http.Client) (*HTTPTransport, error) {
	if apiKey == "" {
		return nil, &ConfigurationError{Message: "API key is required"}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{apiKey: apiKey, baseURL: baseURL, client: client}, nil
}

// GenerateContent implements Transport.
func (t *HTTPTransport) GenerateContent(ctx context.Context, model string, payload *Payload) (*Response, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", t.baseURL, model, t.apiKey)
	return t.post(ctx, url, payload)
}

// EmbedContent implements Transport.
func (t *HTTPTransport) EmbedContent(ctx context.Context, model, text string) (*Response, error) {
	// model arrives fully qualified ("models/embedding-001"), so it
	// lands directly on the path.
	url := fmt.Sprintf("%s/%s:embedContent?key=%s", t.baseURL, model, t.apiKey)
	body := embedPayload{
		Model:   model,
		Content: Content{Parts: []Part{{Text: text}}},
	}
	return t.post(ctx, url, body)
}

// post marshals body, POSTs it, and decodes the typed response. The
// same flow serves both endpoints because Gemini answers both with a
// shape Response can hold.
func (t *HTTPTransport) post(ctx context.Context, url string, body any) (*Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request to gemini: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		// Keep the provider's error text: the dispatcher preserves this
		// message verbatim in the failed result.
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 4096))
		return nil, &TransportError{
			StatusCode: httpResp.StatusCode,
			Message:    string(bytes.TrimSpace(msg)),
		}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decoding gemini response: %w", err)
	}
	return &resp, nil
}
