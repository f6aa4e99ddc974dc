package gemini

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/howard-nolan/geminibridge/internal/media"
	"github.com/howard-nolan/geminibridge/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalKeyFor(t *testing.T, req *request.Request) string {
	t.Helper()
	payload, err := buildPayload(req)
	require.NoError(t, err)
	key, err := generateKey("gemini-2.0-flash", payload, req)
	require.NoError(t, err)
	canonical, err := key.canonical()
	require.NoError(t, err)
	return canonical
}

func TestCacheKey_Deterministic(t *testing.T) {
	req := &request.Request{
		Messages: []request.Message{
			{Role: "user", Content: request.TextContent("a")},
			{Role: "model", Content: request.TextContent("b")},
		},
		Temperature: 0.5,
		MaxTokens:   10,
	}

	// Structurally identical requests always derive the same key.
	first := canonicalKeyFor(t, req)
	second := canonicalKeyFor(t, req)
	assert.Equal(t, first, second)
}

func TestCacheKey_OrderSensitive(t *testing.T) {
	forward := canonicalKeyFor(t, &request.Request{
		Messages: []request.Message{
			{Role: "user", Content: request.TextContent("a")},
			{Role: "user", Content: request.TextContent("b")},
		},
	})
	reversed := canonicalKeyFor(t, &request.Request{
		Messages: []request.Message{
			{Role: "user", Content: request.TextContent("b")},
			{Role: "user", Content: request.TextContent("a")},
		},
	})
	assert.NotEqual(t, forward, reversed)
}

func TestCacheKey_DifferentImageBytesDiffer(t *testing.T) {
	// Two requests identical in every field, including the file PATH,
	// but with different bytes behind that path. The fingerprint must
	// keep them apart.
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "img.png")

	require.NoError(t, os.WriteFile(imgPath, []byte("image-one"), 0644))
	makeReq := func() *request.Request {
		return &request.Request{
			MultimodalPrompt: []media.Object{
				media.Text("describe"),
				media.Image(imgPath, "image/png"),
			},
		}
	}
	first := canonicalKeyFor(t, makeReq())

	require.NoError(t, os.WriteFile(imgPath, []byte("image-two"), 0644))
	second := canonicalKeyFor(t, makeReq())

	assert.NotEqual(t, first, second)
}

func TestCacheKey_MultimodalFingerprintPresent(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("bytes"), 0644))

	req := &request.Request{
		MultimodalPrompt: []media.Object{media.Image(imgPath, "image/png")},
	}
	payload, err := buildPayload(req)
	require.NoError(t, err)

	key, err := generateKey("gemini-2.0-flash", payload, req)
	require.NoError(t, err)
	assert.NotEmpty(t, key.MultimodalFingerprint)

	// Plain text requests carry no fingerprint field at all.
	plain := &request.Request{Prompt: "hello"}
	plainPayload, err := buildPayload(plain)
	require.NoError(t, err)
	plainKey, err := generateKey("gemini-2.0-flash", plainPayload, plain)
	require.NoError(t, err)
	assert.Empty(t, plainKey.MultimodalFingerprint)
}

func TestCacheKey_GenerationAndEmbeddingNeverCollide(t *testing.T) {
	req := &request.Request{Prompt: "same prompt"}

	payload, err := buildPayload(req)
	require.NoError(t, err)
	genKey, err := generateKey("gemini-2.0-flash", payload, req)
	require.NoError(t, err)
	genCanonical, err := genKey.canonical()
	require.NoError(t, err)

	embKey, err := embeddingKey("gemini-2.0-flash", DefaultEmbeddingModel, req)
	require.NoError(t, err)
	embCanonical, err := embKey.canonical()
	require.NoError(t, err)

	assert.NotEqual(t, genCanonical, embCanonical)
}
