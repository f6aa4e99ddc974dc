package gemini

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/howard-nolan/geminibridge/internal/media"
	"github.com/howard-nolan/geminibridge/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPayload_Messages(t *testing.T) {
	req := &request.Request{
		Messages: []request.Message{
			{Role: "user", Content: request.TextContent("hello")},
			{Role: "model", Content: request.TextContent("hi there")},
			{Role: "user", Content: request.TextContent("how are you?")},
		},
		Temperature: 0.7,
		TopP:        0.9,
		MaxTokens:   256,
	}

	payload, err := buildPayload(req)
	require.NoError(t, err)

	// One turn per message, roles preserved in order.
	require.Len(t, payload.Contents, 3)
	assert.Equal(t, "user", payload.Contents[0].Role)
	assert.Equal(t, "model", payload.Contents[1].Role)
	assert.Equal(t, "user", payload.Contents[2].Role)

	// Plain string content becomes a single text part.
	require.Len(t, payload.Contents[1].Parts, 1)
	assert.Equal(t, "hi there", payload.Contents[1].Parts[0].Text)

	// Generation config maps 1:1.
	assert.Equal(t, 0.7, payload.GenerationConfig.Temperature)
	assert.Equal(t, 0.9, payload.GenerationConfig.TopP)
	assert.Equal(t, 256, payload.GenerationConfig.MaxOutputTokens)
}

func TestBuildPayload_StructuredContentPassesThrough(t *testing.T) {
	req := &request.Request{
		Messages: []request.Message{
			{Role: "user", Content: request.PartsContent(
				request.TextPart("look at this:"),
				request.InlineDataPart("image/png", []byte{0x89, 0x50}),
			)},
		},
	}

	payload, err := buildPayload(req)
	require.NoError(t, err)
	require.Len(t, payload.Contents, 1)
	require.Len(t, payload.Contents[0].Parts, 2)

	assert.Equal(t, "look at this:", payload.Contents[0].Parts[0].Text)
	require.NotNil(t, payload.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/png", payload.Contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0x89, 0x50}),
		payload.Contents[0].Parts[1].InlineData.Data)
}

func TestBuildPayload_MessagesWinOverOtherChannels(t *testing.T) {
	// All three channels set: messages take precedence.
	req := &request.Request{
		Prompt:           "ignored",
		Messages:         []request.Message{{Role: "user", Content: request.TextContent("from messages")}},
		MultimodalPrompt: []media.Object{media.Text("also ignored")},
	}

	payload, err := buildPayload(req)
	require.NoError(t, err)
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "from messages", payload.Contents[0].Parts[0].Text)
}

func TestBuildPayload_MultimodalTextOnly(t *testing.T) {
	req := &request.Request{
		MultimodalPrompt: []media.Object{
			media.Text("first"),
			media.Text("second"),
			media.Text("third"),
		},
	}

	payload, err := buildPayload(req)
	require.NoError(t, err)

	// Exactly one "user" turn, one text part per media object, in order.
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)
	require.Len(t, payload.Contents[0].Parts, 3)
	assert.Equal(t, "first", payload.Contents[0].Parts[0].Text)
	assert.Equal(t, "second", payload.Contents[0].Parts[1].Text)
	assert.Equal(t, "third", payload.Contents[0].Parts[2].Text)
}

func TestBuildPayload_MultimodalImage(t *testing.T) {
	imgBytes := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	imgPath := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(imgPath, imgBytes, 0644))

	req := &request.Request{
		MultimodalPrompt: []media.Object{
			media.Text("what is in this picture?"),
			media.Image(imgPath, "image/png"),
		},
	}

	payload, err := buildPayload(req)
	require.NoError(t, err)
	require.Len(t, payload.Contents, 1)
	require.Len(t, payload.Contents[0].Parts, 2)

	img := payload.Contents[0].Parts[1].InlineData
	require.NotNil(t, img)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(imgBytes), img.Data)
}

func TestBuildPayload_UnsupportedMedia(t *testing.T) {
	req := &request.Request{
		MultimodalPrompt: []media.Object{
			media.Text("listen to this"),
			media.Other("audio/wav"),
		},
	}

	_, err := buildPayload(req)

	var unsupported *UnsupportedMediaError
	require.ErrorAs(t, err, &unsupported)
	// The error names the rejected type.
	assert.Equal(t, "audio/wav", unsupported.MediaType)
	assert.Contains(t, err.Error(), "audio/wav")
}

func TestBuildPayload_InvalidMultimodalFailsFast(t *testing.T) {
	req := &request.Request{
		MultimodalPrompt: []media.Object{
			{Kind: media.KindImage, ContentType: "image/png"}, // no location
		},
	}

	_, err := buildPayload(req)

	var invalid *request.ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestBuildPayload_UnreadableImage(t *testing.T) {
	req := &request.Request{
		MultimodalPrompt: []media.Object{
			media.Image(filepath.Join(t.TempDir(), "missing.png"), "image/png"),
		},
	}

	_, err := buildPayload(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuildPayload_BarePrompt(t *testing.T) {
	req := &request.Request{Prompt: "just a prompt"}

	payload, err := buildPayload(req)
	require.NoError(t, err)
	require.Len(t, payload.Contents, 1)
	assert.Equal(t, "user", payload.Contents[0].Role)
	require.Len(t, payload.Contents[0].Parts, 1)
	assert.Equal(t, "just a prompt", payload.Contents[0].Parts[0].Text)
}
