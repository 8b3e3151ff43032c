// Package registry holds the static descriptive metadata for every
// selectable image and text-generation model. Pure data, no behavior:
// loading and inference live elsewhere.
package registry

// Backend identifies the calling-convention family a model belongs to.
// It determines which adapter normalizes prompts and outputs for the model.
type Backend string

const (
	// BackendPipeline is a single black-box image-to-text call.
	BackendPipeline Backend = "pipeline"
	// BackendTagPrompted selects behavior via a literal prompt tag (e.g. <OCR>).
	BackendTagPrompted Backend = "tag-prompted"
	// BackendConversational exposes separate caption and free-form query calls.
	BackendConversational Backend = "conversational"
)

// Descriptor is the immutable registry entry for one model.
type Descriptor struct {
	// Key is the stable identifier used in requests and cache lookups.
	Key string
	// Name is the human-friendly display name.
	Name string
	// HubID is the upstream model identifier handed to the runtime loader.
	HubID string
	// Description is shown in GET /models.
	Description string
	// Backend selects the adapter variant. Empty means BackendPipeline.
	Backend Backend
	// Modes maps short mode names to backend-specific prompt tags or mode
	// names. Nil for models without modes.
	Modes map[string]string
	// ModeOrder lists mode names in declaration order for stable listings.
	ModeOrder []string
	// DefaultMode is used when a request omits or misspells the mode.
	DefaultMode string
	// Revision optionally pins the upstream revision to load.
	Revision string
	// PadTokenID optionally fixes the pad token for text models. Nil means
	// resolve from the tokenizer at load time.
	PadTokenID *int
}

// DefaultImageModel and DefaultTextModel are the fallback keys used whenever
// a request omits the model or names an unknown one.
const (
	DefaultImageModel = "florence-2"
	DefaultTextModel  = "smollm2-1.7b"
)

func intPtr(v int) *int { return &v }

var imageModels = []Descriptor{
	{
		Key:         "blip-base",
		Name:        "BLIP Base",
		HubID:       "Salesforce/blip-image-captioning-base",
		Description: "Fast and lightweight (500MB)",
		Backend:     BackendPipeline,
	},
	{
		Key:         "blip-large",
		Name:        "BLIP Large",
		HubID:       "Salesforce/blip-image-captioning-large",
		Description: "More detailed captions (2GB)",
		Backend:     BackendPipeline,
	},
	{
		Key:         "vit-gpt2",
		Name:        "ViT-GPT2",
		HubID:       "nlpconnect/vit-gpt2-image-captioning",
		Description: "Alternative model (500MB)",
		Backend:     BackendPipeline,
	},
	{
		Key:         "florence-2",
		Name:        "Florence-2 Base",
		HubID:       "microsoft/Florence-2-base",
		Description: "High-quality captions (custom loader, ~1.5GB)",
		Backend:     BackendTagPrompted,
		DefaultMode: "more_detailed",
		Modes: map[string]string{
			"caption":       "<CAPTION>",
			"more_detailed": "<MORE_DETAILED_CAPTION>",
			"ocr":           "<OCR>",
			"dense":         "<DENSE_CAPTION>",
			"od":            "<OD>",
		},
		ModeOrder: []string{"caption", "more_detailed", "ocr", "dense", "od"},
	},
	{
		Key:         "moondream-2",
		Name:        "Moondream2",
		HubID:       "vikhyatk/moondream2",
		Description: "Lightweight VLM (fast CPU, ~1-2GB RAM)",
		Backend:     BackendConversational,
		Revision:    "2025-06-21",
		DefaultMode: "caption",
		Modes: map[string]string{
			"caption": "caption",
			"roast":   "roast",
		},
		ModeOrder: []string{"caption", "roast"},
	},
}

var textModels = []Descriptor{
	{
		Key:         "smollm2-1.7b",
		Name:        "SmolLM2 1.7B Instruct",
		HubID:       "HuggingFaceTB/SmolLM2-1.7B-Instruct",
		Description: "Tiny instruct model (fast CPU, ~1.5GB RAM)",
		PadTokenID:  intPtr(128000),
	},
	{
		Key:         "phi3-mini",
		Name:        "Phi-3 Mini 4k",
		HubID:       "microsoft/Phi-3-mini-4k-instruct",
		Description: "Reasoning-focused small model (~3GB RAM)",
	},
	{
		Key:         "gemma2-2b",
		Name:        "Gemma-2 2B IT",
		HubID:       "google/gemma-2-2b-it",
		Description: "Creative text, ~2GB RAM",
	},
	{
		Key:         "qwen2.5-1.5b",
		Name:        "Qwen2.5 1.5B Instruct",
		HubID:       "Qwen/Qwen2.5-1.5B-Instruct",
		Description: "Multilingual ultra-light (~1GB RAM)",
	},
	{
		Key:         "tinyllama-1.1b",
		Name:        "TinyLlama 1.1B Chat",
		HubID:       "TinyLlama/TinyLlama-1.1B-Chat-v1.0",
		Description: "Very fast, basic chat (~1GB RAM)",
	},
}

// ImageModels returns the image model descriptors in registry order.
// Callers get a shallow copy to avoid external mutation.
func ImageModels() []Descriptor {
	out := make([]Descriptor, len(imageModels))
	copy(out, imageModels)
	return out
}

// TextModels returns the text model descriptors in registry order.
func TextModels() []Descriptor {
	out := make([]Descriptor, len(textModels))
	copy(out, textModels)
	return out
}

// LookupImage resolves an image model key. The boolean is false for unknown
// keys; callers fall back to DefaultImageModel rather than failing.
func LookupImage(key string) (Descriptor, bool) {
	return lookup(imageModels, key)
}

// LookupText resolves a text model key. The boolean is false for unknown
// keys; callers fall back to DefaultTextModel rather than failing.
func LookupText(key string) (Descriptor, bool) {
	return lookup(textModels, key)
}

func lookup(list []Descriptor, key string) (Descriptor, bool) {
	for _, d := range list {
		if d.Key == key {
			return d, true
		}
	}
	return Descriptor{}, false
}

// PromptTag resolves a requested mode to this descriptor's prompt tag.
// Unknown or empty modes fall back to the default mode's tag, and further to
// fallback when even the default is missing from the mode table.
func (d Descriptor) PromptTag(mode, fallback string) string {
	if tag, ok := d.Modes[mode]; ok {
		return tag
	}
	if tag, ok := d.Modes[d.DefaultMode]; ok {
		return tag
	}
	return fallback
}
