package gemini

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/howard-nolan/geminibridge/internal/media"
	"github.com/howard-nolan/geminibridge/internal/request"
)

// ---------------------------------------------------------------------------
// Cache key construction
// ---------------------------------------------------------------------------

// cacheKey is the structural key a request is cached under. Two keys
// are equal exactly when their canonical serializations are equal, so:
//
//   - equal payloads (same turns, same part order, same config) always
//     produce equal keys — no false misses;
//   - reordering turns or parts produces different keys;
//   - requests differing only in attached media *content* still get
//     different keys, because the fingerprint digests file bytes, not
//     file paths.
type cacheKey struct {
	Model string `json:"model"`

	// Payload is set on the generation path.
	Payload *Payload `json:"payload,omitempty"`

	// Prompt and EmbeddingModel are set on the embedding path, which
	// has no structured payload.
	Prompt         string `json:"prompt,omitempty"`
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// MultimodalFingerprint digests the full ordered multimodal content
	// when the request carries any. Without it, two requests whose
	// images live at the same path but hold different bytes would
	// collide: the payload embeds the bytes, but the embedding-path key
	// and any path-only identity would not.
	MultimodalFingerprint string `json:"multimodal_fingerprint,omitempty"`
}

// generateKey builds the cache key for a generation request.
func generateKey(model string, payload *Payload, req *request.Request) (*cacheKey, error) {
	key := &cacheKey{Model: model, Payload: payload}
	if len(req.MultimodalPrompt) > 0 {
		fp, err := fingerprintMedia(req.MultimodalPrompt)
		if err != nil {
			return nil, err
		}
		key.MultimodalFingerprint = fp
	}
	return key, nil
}

// embeddingKey builds the cache key for an embedding request.
func embeddingKey(model, embeddingModel string, req *request.Request) (*cacheKey, error) {
	key := &cacheKey{Model: model, Prompt: req.Prompt, EmbeddingModel: embeddingModel}
	if len(req.MultimodalPrompt) > 0 {
		fp, err := fingerprintMedia(req.MultimodalPrompt)
		if err != nil {
			return nil, err
		}
		key.MultimodalFingerprint = fp
	}
	return key, nil
}

// canonical serializes the key deterministically. encoding/json emits
// struct fields in declaration order, and every field here is a struct,
// slice, or scalar (no maps), so equal keys always serialize to equal
// strings.
func (k *cacheKey) canonical() (string, error) {
	b, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("serializing cache key: %w", err)
	}
	return string(b), nil
}

// fingerprintMedia digests the full ordered multimodal content: each
// object's kind, inline text, content type, and, for images, the file
// bytes themselves. Every field is length-prefixed so adjacent objects
// can never smear into each other and collide for different content.
func fingerprintMedia(objects []media.Object) (string, error) {
	h := sha256.New()
	for _, obj := range objects {
		writeLenPrefixed(h, []byte(obj.Kind.String()))
		writeLenPrefixed(h, []byte(obj.Text))
		writeLenPrefixed(h, []byte(obj.ContentType))
		if obj.Kind == media.KindImage {
			data, err := os.ReadFile(obj.Location)
			if err != nil {
				return "", fmt.Errorf("fingerprinting media object %q: %w", obj.Location, err)
			}
			writeLenPrefixed(h, data)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func writeLenPrefixed(h io.Writer, b []byte) {
	binary.Write(h, binary.BigEndian, uint64(len(b)))
	h.Write(b)
}
