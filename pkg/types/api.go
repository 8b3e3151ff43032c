package types

// ModelsResponse wraps the model listings returned by GET /models.
type ModelsResponse struct {
	// Image captioning / VQA models, in registry order.
	Models []ImageModelInfo `json:"models"`
	// Text-generation models, in registry order.
	LLMs []TextModelInfo `json:"llms"`
}

// CaptionResponse is returned by POST /caption.
type CaptionResponse struct {
	// Generated caption or answer text.
	// example: A dog sitting on a wooden bench.
	Text string `json:"text" example:"A dog sitting on a wooden bench."`
}

// GenerateRequest is the JSON body accepted by POST /generate.
// Missing fields fall back to server defaults.
type GenerateRequest struct {
	// Prompt text to continue. Defaults to the empty string.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Optional model identifier. Unknown or empty values resolve to the server default.
	// example: smollm2-1.7b
	Model string `json:"model,omitempty" example:"smollm2-1.7b"`
	// Maximum number of new tokens to generate. Defaults to 256.
	// example: 128
	MaxNewTokens int `json:"max_new_tokens,omitempty" example:"128"`
	// Sampling temperature. Defaults to 0.7.
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
}

// GenerateResponse is returned by POST /generate.
type GenerateResponse struct {
	// Newly generated continuation (the prompt prefix is stripped when present).
	// example:  world
	Text string `json:"text" example:" world"`
	// Model key that actually served the request, after default fallback.
	// example: smollm2-1.7b
	Model string `json:"model" example:"smollm2-1.7b"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	// Always "ok"; the endpoint performs no dependency checks.
	// example: ok
	Status string `json:"status" example:"ok"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: No image provided
	Error string `json:"error" example:"No image provided"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
