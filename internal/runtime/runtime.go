// Package runtime talks to the transformers runtime sidecar over HTTP.
// The sidecar owns model weights and inference math; this package only
// loads models by identifier and runs inference on normalized inputs.
package runtime

import (
	"context"
	"encoding/json"
	"image"
)

// ModelSpec identifies the upstream model to load.
type ModelSpec struct {
	// HubID is the upstream model identifier (e.g. "microsoft/Florence-2-base").
	HubID string `json:"model"`
	// Revision optionally pins the upstream revision.
	Revision string `json:"revision,omitempty"`
}

// Generation is one item of a pipeline result.
type Generation struct {
	GeneratedText string `json:"generated_text"`
}

// GenerateParams captures sampling parameters for text generation.
type GenerateParams struct {
	Prompt             string  `json:"prompt"`
	MaxNewTokens       int     `json:"max_new_tokens"`
	Temperature        float64 `json:"temperature"`
	DoSample           bool    `json:"do_sample"`
	PadTokenID         *int    `json:"pad_token_id,omitempty"`
	NumReturnSequences int     `json:"num_return_sequences"`
}

// ImageModel is a loaded image model handle. The four calls mirror the
// incompatible calling conventions the adapters normalize: a black-box
// pipeline, tag-prompted generation, and the conversational query/caption
// pair whose results may or may not be structured.
type ImageModel interface {
	// Pipeline runs a single black-box image-to-text call.
	Pipeline(ctx context.Context, img image.Image) ([]Generation, error)
	// GenerateWithPrompt runs generation conditioned on a prompt tag and
	// returns the decoded text, which may still carry the tag prefix.
	GenerateWithPrompt(ctx context.Context, img image.Image, prompt string) (string, error)
	// Query runs a free-form visual question call. The payload shape is
	// model-dependent, so the raw JSON is returned for the caller to probe.
	Query(ctx context.Context, img image.Image, prompt string) (json.RawMessage, error)
	// Caption runs the model's native captioning call. Raw JSON as for Query.
	Caption(ctx context.Context, img image.Image) (json.RawMessage, error)
}

// TextModel is a loaded text-generation model handle.
type TextModel interface {
	// PadTokenID reports the tokenizer's configured pad token, if any.
	PadTokenID() (int, bool)
	// EOSTokenID reports the tokenizer's end-of-sequence token, if any.
	EOSTokenID() (int, bool)
	// SetPadTokenID configures the tokenizer pad token so later generation
	// calls do not warn or fail.
	SetPadTokenID(ctx context.Context, id int) error
	// Generate runs a sampling generation call and returns the full
	// generated text (prompt included when the model echoes it).
	Generate(ctx context.Context, params GenerateParams) (string, error)
}

// Loader loads models by identifier. Implemented by Client against the real
// sidecar and by fakes in tests.
type Loader interface {
	LoadImageModel(ctx context.Context, spec ModelSpec) (ImageModel, error)
	LoadTextModel(ctx context.Context, spec ModelSpec) (TextModel, error)
}
