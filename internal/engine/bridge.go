package engine

import "github.com/rs/zerolog"

// Bridge preserves the boundary contract expected by platform marshalling
// layers: five operations, failures folded into sentinel values (false or
// the empty string), never an error crossing the boundary. A caller that
// needs to branch on failure cause should use Engine directly; the Bridge
// exists for hosts that only understand "a reply or nothing".
type Bridge struct {
	e *Engine
}

// NewBridge wraps an engine built on the given runtime.
func NewBridge(rt Runtime, log zerolog.Logger) *Bridge {
	return &Bridge{e: New(rt, log)}
}

// Engine exposes the underlying engine for callers that outgrow the
// sentinel contract.
func (b *Bridge) Engine() *Engine { return b.e }

// Init performs one-time backend setup. Call once at process start.
func (b *Bridge) Init() {
	if err := b.e.Init(); err != nil {
		b.e.log.Error().Err(err).Msg("backend init failed")
	}
}

// LoadModel loads the GGUF file at path, superseding any prior load.
// Returns false on failure, leaving the engine unloaded.
func (b *Bridge) LoadModel(path string, threads, contextCapacity int) bool {
	if err := b.e.Init(); err != nil {
		return false
	}
	return b.e.Load(path, threads, contextCapacity) == nil
}

// Generate produces a reply for an already-formatted prompt. It never
// fails: a missing model, an oversized prompt, or a prefill failure all
// yield the empty string, and a decode failure mid-generation yields the
// partial text accumulated so far.
func (b *Bridge) Generate(prompt string, maxTokens int, temperature float32) string {
	res, err := b.e.Generate(prompt, GenerateOptions{
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil && !IsDecodeInterrupted(err) {
		return ""
	}
	return res.Text
}

// IsLoaded reports whether a model is loaded. Pure query.
func (b *Bridge) IsLoaded() bool { return b.e.Loaded() }

// Free releases context, model, and backend. Idempotent.
func (b *Bridge) Free() { _ = b.e.Close() }
