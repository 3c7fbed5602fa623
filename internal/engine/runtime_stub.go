//go:build !yzma

package engine

// This stub compiles when the 'yzma' build tag is not set, keeping default
// builds free of native library loading. It refuses to run rather than
// mock inference; tests exercise the engine through in-package fakes.

// runtimeBuilt indicates this binary carries the real llama runtime.
var runtimeBuilt = false

type stubRuntime struct{}

// NewLlamaRuntime returns a fail-fast Runtime when built without the
// 'yzma' tag. The libPath argument is accepted for signature parity.
func NewLlamaRuntime(libPath string) Runtime {
	return stubRuntime{}
}

func (stubRuntime) InitBackend() error {
	return ErrRuntimeUnavailable("llama runtime not built (missing 'yzma' build tag)")
}

func (stubRuntime) FreeBackend() {}

func (stubRuntime) LoadModel(path string) (Model, error) {
	return nil, ErrRuntimeUnavailable("llama runtime not built (missing 'yzma' build tag)")
}

func (stubRuntime) NewSampler(temperature float32, seed uint32) Sampler {
	return stubSampler{}
}

type stubSampler struct{}

func (stubSampler) Sample(c Context) Token { return 0 }
func (stubSampler) Free()                  {}
