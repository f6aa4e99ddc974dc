package gemini

// ---------------------------------------------------------------------------
// Gemini wire types
// ---------------------------------------------------------------------------

// These structs mirror the JSON shapes of Gemini's generateContent and
// embedContent endpoints. They are the only place the provider's format
// appears; everything above the adapter speaks the uniform request
// package types.

// --- Request types ---

// Payload is the top-level request body for generateContent.
type Payload struct {
	Contents         []Content        `json:"contents"`
	GenerationConfig GenerationConfig `json:"generationConfig"`
}

// Content is one turn of the conversation: a role plus ordered parts.
// Gemini uses "user" and "model" roles.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one content unit within a turn — text, or inline binary data.
// Exactly one of Text / InlineData is set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// InlineData carries base64-encoded bytes plus their MIME type, for
// images attached to a multimodal prompt.
type InlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// GenerationConfig maps 1:1 from the request's sampling fields.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// embedPayload is the request body for embedContent.
type embedPayload struct {
	Model   string  `json:"model"`
	Content Content `json:"content"`
}

// --- Response types ---

// Response is the provider's answer, for both endpoints: candidates for
// generation, an embedding vector for embeddings. Only one side is ever
// populated.
type Response struct {
	Candidates []Candidate `json:"candidates,omitempty"`
	Embedding  *Embedding  `json:"embedding,omitempty"`
}

// Candidate is one alternative generated output.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Embedding holds the numeric vector from embedContent.
type Embedding struct {
	Values []float64 `json:"values"`
}
