package gemini

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/howard-nolan/geminibridge/internal/media"
	"github.com/howard-nolan/geminibridge/internal/request"
)

// ---------------------------------------------------------------------------
// Request translation (uniform Request → Gemini Payload)
// ---------------------------------------------------------------------------

// buildPayload translates a uniform request into Gemini's
// generateContent body. It is pure apart from reading attached image
// files, and it fails only for caller bugs: structurally invalid
// multimodal prompts, unsupported media types, unreadable attachments.
//
// The three input channels are handled in precedence order:
//
//  1. Messages — one turn per message, roles preserved in order.
//  2. MultimodalPrompt — a single "user" turn whose parts mirror the
//     media objects in order.
//  3. Prompt — a single "user" turn with one text part.
//
// Embedding requests never come through here; they have their own
// minimal payload (see Client.makeEmbeddingRequest).
func buildPayload(req *request.Request) (*Payload, error) {
	contents, err := buildContents(req)
	if err != nil {
		return nil, err
	}
	return &Payload{
		Contents: contents,
		GenerationConfig: GenerationConfig{
			Temperature:     req.Temperature,
			TopP:            req.TopP,
			MaxOutputTokens: req.MaxTokens,
		},
	}, nil
}

func buildContents(req *request.Request) ([]Content, error) {
	switch {
	case len(req.Messages) > 0:
		return messageContents(req.Messages)
	case len(req.MultimodalPrompt) > 0:
		// Fail fast on structural problems before touching the disk.
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return multimodalContents(req.MultimodalPrompt)
	default:
		return []Content{{Role: "user", Parts: []Part{{Text: req.Prompt}}}}, nil
	}
}

// messageContents emits one turn per message. Plain string content is
// wrapped as a single text part; pre-structured content is passed
// through verbatim — the caller already chose the part layout, and we
// don't second-guess it.
func messageContents(messages []request.Message) ([]Content, error) {
	contents := make([]Content, 0, len(messages))
	for _, msg := range messages {
		var parts []Part
		switch msg.Content.Kind {
		case request.ContentText:
			parts = []Part{{Text: msg.Content.Text}}
		case request.ContentParts:
			parts = make([]Part, 0, len(msg.Content.Parts))
			for _, p := range msg.Content.Parts {
				parts = append(parts, wirePart(p))
			}
		}
		contents = append(contents, Content{Role: msg.Role, Parts: parts})
	}
	return contents, nil
}

// wirePart converts one provider-neutral part to the wire shape.
func wirePart(p request.Part) Part {
	switch p.Kind {
	case request.PartInlineData:
		return Part{InlineData: &InlineData{
			MIMEType: p.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(p.Data),
		}}
	default:
		return Part{Text: p.Text}
	}
}

// multimodalContents builds the single "user" turn for a multimodal
// prompt: a text part per text object, an inline-data part per image
// object (bytes read from disk here, at translation time), and a hard
// rejection for everything else.
func multimodalContents(objects []media.Object) ([]Content, error) {
	parts := make([]Part, 0, len(objects))
	for _, obj := range objects {
		switch obj.Kind {
		case media.KindText:
			parts = append(parts, Part{Text: obj.Text})
		case media.KindImage:
			data, err := os.ReadFile(obj.Location)
			if err != nil {
				return nil, fmt.Errorf("reading media object %q: %w", obj.Location, err)
			}
			parts = append(parts, Part{InlineData: &InlineData{
				MIMEType: obj.ContentType,
				Data:     base64.StdEncoding.EncodeToString(data),
			}})
		default:
			return nil, &UnsupportedMediaError{MediaType: obj.DescribeType()}
		}
	}
	return []Content{{Role: "user", Parts: parts}}, nil
}
