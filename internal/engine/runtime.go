package engine

// Token is an integer identifier for a sub-word unit in the model vocabulary.
type Token int32

// pieceBufSize bounds the UTF-8 fragment one token may detokenize into.
// No real vocabulary comes close; a longer piece is dropped, not truncated.
const pieceBufSize = 256

// RuntimeBuilt reports whether this binary was compiled with the real
// llama runtime ('yzma' build tag).
func RuntimeBuilt() bool { return runtimeBuilt }

// ContextParams sizes the inference context created for a loaded model.
type ContextParams struct {
	// Capacity is the token window (n_ctx). The prompt plus everything
	// generated in one call must fit inside it.
	Capacity int
	// Threads is used for both prompt processing and batch decode.
	Threads int
}

// Runtime abstracts the native llama.cpp surface the engine drives.
// Concrete implementations (e.g., yzma) should satisfy this interface.
type Runtime interface {
	// InitBackend performs process-wide backend setup. Implementations must
	// tolerate repeated calls.
	InitBackend() error
	// FreeBackend releases process-wide backend state.
	FreeBackend()
	// LoadModel parses a GGUF file into an immutable model handle.
	LoadModel(path string) (Model, error)
	// NewSampler builds a fresh sampler chain: temperature scaling followed
	// by a seeded draw from the resulting distribution. Nothing else.
	NewSampler(temperature float32, seed uint32) Sampler
}

// Model is a loaded set of weights plus its derived vocabulary.
type Model interface {
	NewContext(params ContextParams) (Context, error)
	Vocab() Vocab
	Free()
}

// Context is the mutable inference state, including the KV cache.
type Context interface {
	// ClearMemory wipes the KV cache so no prior turn is remembered.
	ClearMemory()
	// Decode submits tokens as one batch, advancing the KV cache.
	Decode(tokens []Token) error
	Free()
}

// Vocab converts between text and token identifiers.
type Vocab interface {
	// Encode tokenizes text into at most max tokens. It must fail, not
	// truncate, when the true token count exceeds max. The model's special
	// tokens are added and in-text control markup is parsed unconditionally.
	Encode(text string, max int) ([]Token, error)
	// Piece renders a single token back to its UTF-8 fragment.
	Piece(t Token) (string, error)
	// IsEOG reports whether t is one of the model's end-of-generation tokens.
	IsEOG(t Token) bool
}

// Sampler draws one token from the distribution at the context's last position.
type Sampler interface {
	Sample(c Context) Token
	Free()
}
