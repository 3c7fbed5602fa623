// Package engine runs a local GGUF language model to produce one chat
// reply per call. It is structured into small files by concern:
//
//   - runtime.go: the Runtime/Model/Context/Vocab/Sampler seam over the
//     native llama.cpp surface.
//   - runtime_yzma.go: real runtime via yzma purego bindings (`yzma` tag).
//   - runtime_stub.go: fail-fast runtime for builds without the tag.
//   - engine.go: Engine lifecycle (Init/Load/Unload/Close) and state machine.
//   - generate.go: the prefill → sample → decode loop with its two stop
//     conditions (end-of-generation token, stop-marker substring).
//   - errors.go: typed error kinds and helpers (IsNotLoaded,
//     IsTokenizeOverflow, IsPrefillFailed, IsDecodeInterrupted, ...).
//   - bridge.go: the five-operation sentinel-value facade for platform
//     marshalling layers.
//
// One Engine owns at most one model/context pair. The KV cache is cleared
// at the start of every Generate call: the engine keeps no conversational
// state, and multi-turn history must be re-supplied in the prompt text.
// Operations are blocking and must be serialized by the caller.
package engine
