package types

// ImageModelInfo describes a selectable image-captioning model as returned
// by GET /models.
type ImageModelInfo struct {
	// Stable identifier used in requests.
	// example: florence-2
	Key string `json:"key" example:"florence-2"`
	// Human-friendly name.
	// example: Florence-2 Base
	Name string `json:"name" example:"Florence-2 Base"`
	// Short description including rough resource needs.
	// example: High-quality captions (custom loader, ~1.5GB)
	Description string `json:"description" example:"High-quality captions (custom loader, ~1.5GB)"`
	// Names of captioning modes the model supports; null when the model has none.
	// example: ["caption","more_detailed","ocr"]
	Modes []string `json:"modes"`
	// Mode used when the request does not specify one. Empty for models
	// without modes, but always present in the payload.
	// example: more_detailed
	DefaultMode string `json:"default_mode" example:"more_detailed"`
}

// TextModelInfo describes a selectable text-generation model as returned
// by GET /models.
type TextModelInfo struct {
	// Stable identifier used in requests.
	// example: smollm2-1.7b
	Key string `json:"key" example:"smollm2-1.7b"`
	// Human-friendly name.
	// example: SmolLM2 1.7B Instruct
	Name string `json:"name" example:"SmolLM2 1.7B Instruct"`
	// Short description including rough resource needs.
	// example: Tiny instruct model (fast CPU, ~1.5GB RAM)
	Description string `json:"description" example:"Tiny instruct model (fast CPU, ~1.5GB RAM)"`
}
