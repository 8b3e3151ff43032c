package caption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"

	"captiond/internal/registry"
	"captiond/internal/runtime"
)

// Backend normalizes one model family's calling convention to a single
// caption call. The concrete variant is chosen once at load time from the
// descriptor, not per request.
type Backend interface {
	Caption(ctx context.Context, img image.Image, question, mode string) (string, error)
}

const (
	// fallbackPromptTag is used when a tag-prompted descriptor has no usable
	// mode table at all.
	fallbackPromptTag = "<MORE_DETAILED_CAPTION>"
	// fallbackRoastPrompt is the query sent in roast mode when the request
	// carries no question.
	fallbackRoastPrompt = "Roast this image in one short, witty sentence."
)

// newBackend picks the adapter variant for a descriptor.
func newBackend(desc registry.Descriptor, model runtime.ImageModel) Backend {
	switch desc.Backend {
	case registry.BackendTagPrompted:
		return &tagPromptedBackend{desc: desc, model: model}
	case registry.BackendConversational:
		return &conversationalBackend{desc: desc, model: model}
	default:
		return &pipelineBackend{model: model}
	}
}

// pipelineBackend invokes a single black-box image-to-text call. No mode or
// question support.
type pipelineBackend struct {
	model runtime.ImageModel
}

func (b *pipelineBackend) Caption(ctx context.Context, img image.Image, question, mode string) (string, error) {
	results, err := b.model.Pipeline(ctx, img)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.New("pipeline returned no results")
	}
	return results[0].GeneratedText, nil
}

// tagPromptedBackend selects behavior via a literal prompt tag resolved from
// the mode table, strips the tag from the decoded output, and prepends a
// Question/Answer block when a question was asked.
type tagPromptedBackend struct {
	desc  registry.Descriptor
	model runtime.ImageModel
}

func (b *tagPromptedBackend) Caption(ctx context.Context, img image.Image, question, mode string) (string, error) {
	tag := b.desc.PromptTag(mode, fallbackPromptTag)
	text, err := b.model.GenerateWithPrompt(ctx, img, tag)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(text, tag) {
		text = strings.TrimSpace(text[len(tag):])
	}
	if question != "" {
		text = fmt.Sprintf("Question: %s\nAnswer: ", question) + text
	}
	return text, nil
}

// conversationalBackend dispatches between the model's query and caption
// calls by effective mode and copes with result payloads that may or may not
// be structured.
type conversationalBackend struct {
	desc  registry.Descriptor
	model runtime.ImageModel
}

func (b *conversationalBackend) Caption(ctx context.Context, img image.Image, question, mode string) (string, error) {
	effMode := mode
	if effMode == "" {
		effMode = b.desc.DefaultMode
	}
	if effMode == "roast" {
		prompt := strings.TrimSpace(question)
		if prompt == "" {
			prompt = fallbackRoastPrompt
		}
		raw, err := b.model.Query(ctx, img, prompt)
		if err != nil {
			return "", err
		}
		return fieldOrString(raw, "answer"), nil
	}
	// Anything else is treated as caption mode.
	raw, err := b.model.Caption(ctx, img)
	if err != nil {
		return "", err
	}
	return fieldOrString(raw, "caption"), nil
}

// fieldOrString extracts a string field from a structured result, falling
// back to the stringified raw payload for models that return bare text.
func fieldOrString(raw json.RawMessage, field string) string {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		if v, ok := obj[field].(string); ok {
			return v
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
