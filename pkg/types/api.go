package types

// GenerateRequest is the payload for POST /generate. The prompt must be
// fully formatted by the caller (chat template already applied); the
// engine treats it as opaque text.
type GenerateRequest struct {
	// Required prompt text to generate a reply for.
	// example: <|im_start|>user\nWrite a haiku about the ocean.<|im_end|>\n<|im_start|>assistant\n
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Maximum number of new tokens to generate. Zero generates nothing.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Sampling temperature (higher = more random; an explicit 0 requests
	// near-greedy sampling). Omitted uses the server default.
	// example: 0.7
	Temperature *float64 `json:"temperature,omitempty" example:"0.7"`
	// Random seed for the sampler draw; 0 or omitted uses the server default.
	// example: 42
	Seed uint32 `json:"seed,omitempty" example:"42"`
	// Optional stop markers. Generation stops and the reply is truncated
	// where the first marker appears. Omitted uses the server default.
	// example: ["<|im_end|>"]
	Stop []string `json:"stop,omitempty" example:"[\"<|im_end|>\"]"`
}

// GenerateResponse is the whole reply, materialized before returning.
type GenerateResponse struct {
	// Generated text with any stop marker and trailing content removed.
	Reply string `json:"reply"`
	// Number of sampled tokens kept in the reply.
	// example: 17
	Tokens int `json:"tokens" example:"17"`
	// Why generation stopped: eog, stop_marker, length, or decode_error.
	// example: eog
	FinishReason string `json:"finish_reason" example:"eog"`
}

// LoadRequest is the payload for POST /load. Either a registry model id
// or an explicit path must be given.
type LoadRequest struct {
	// Registry model id to load.
	// example: qwen2.5-1.5b-instruct-q4_k_m.gguf
	Model string `json:"model,omitempty" example:"qwen2.5-1.5b-instruct-q4_k_m.gguf"`
	// Absolute path to a GGUF file, bypassing the registry.
	Path string `json:"path,omitempty"`
	// Decode threads. Omitted uses the server default.
	// example: 4
	Threads int `json:"threads,omitempty" example:"4"`
	// Context capacity in tokens. Omitted uses the server default.
	// example: 2048
	ContextCapacity int `json:"context_capacity,omitempty" example:"2048"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of discoverable models.
	Models []Model `json:"models"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Engine lifecycle state: uninitialized, backend_ready, or loaded.
	// example: loaded
	State string `json:"state" example:"loaded"`
	// Path of the loaded model, when loaded.
	ModelPath string `json:"model_path,omitempty"`
	// Context capacity in tokens, when loaded.
	// example: 2048
	ContextCapacity int `json:"context_capacity,omitempty" example:"2048"`
	// Decode threads, when loaded.
	// example: 4
	Threads int `json:"threads,omitempty" example:"4"`
	// Whether this binary carries the native llama runtime.
	// example: true
	RuntimeBuilt bool `json:"runtime_built" example:"true"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
