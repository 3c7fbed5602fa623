package types

// Model represents a discoverable or loadable GGUF model on disk.
type Model struct {
	// Stable identifier for the model.
	// example: qwen2.5-1.5b-instruct-q4
	ID string `json:"id" example:"qwen2.5-1.5b-instruct-q4"`
	// Human-friendly name.
	// example: Qwen2.5 1.5B Instruct (Q4)
	Name string `json:"name" example:"Qwen2.5 1.5B Instruct (Q4)"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/qwen2.5-1.5b-instruct-q4_k_m.gguf
	Path string `json:"path" example:"/home/user/models/qwen2.5-1.5b-instruct-q4_k_m.gguf"`
	// Quantization level or variant string.
	// example: Q4_K_M
	Quant string `json:"quant" example:"Q4_K_M"`
	// Optional family (e.g., qwen, llama, phi).
	// example: qwen
	Family string `json:"family,omitempty" example:"qwen"`
}
