package gemini

import "fmt"

// The error taxonomy, and who sees what:
//
//   - ConfigurationError: raised at construction time (missing API key,
//     missing collaborator). Fatal, never cached.
//   - request.ValidationError / UnsupportedMediaError: raised while
//     translating a request, before any cache or network interaction.
//     Returned as Go errors because they indicate a caller bug.
//   - TransportError (and any other error out of the provider call):
//     caught at the dispatch boundary and converted into a failed
//     Result — never returned as a Go error.
//   - MalformedResponseError: the provider answered but the response is
//     missing expected fields. Also converted into a failed Result so
//     the call boundary stays uniform.

// ConfigurationError reports a missing credential or collaborator at
// construction time.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "gemini: " + e.Message
}

// UnsupportedMediaError rejects a multimodal request carrying a media
// type this adapter cannot send to Gemini. It names the offending type.
type UnsupportedMediaError struct {
	MediaType string
}

func (e *UnsupportedMediaError) Error() string {
	return fmt.Sprintf("unsupported media type for gemini: %s", e.MediaType)
}

// MalformedResponseError reports a provider response missing fields we
// depend on (e.g. an embedding response without a vector).
type MalformedResponseError struct {
	Message string
}

func (e *MalformedResponseError) Error() string {
	return "malformed gemini response: " + e.Message
}

// TransportError reports a non-2xx answer from the Gemini API. Network
// level failures are wrapped fmt.Errorf-style by the transport instead;
// the dispatcher treats both identically.
type TransportError struct {
	StatusCode int
	Message    string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %s", e.StatusCode, e.Message)
}
