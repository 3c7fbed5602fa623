package manager

import (
	"fmt"

	"replyd/internal/engine"
)

// fakeRuntime is a minimal in-memory engine.Runtime used to exercise the
// manager without native bindings. The vocabulary maps one rune to one token
// (id = rune value) and the sampler replays a scripted token sequence,
// falling back to token 0 once the script runs out.
type fakeRuntime struct {
	lastLoadedPath    string
	lastContextParams engine.ContextParams
	lastTemperature   float32

	script      []engine.Token
	eog         map[engine.Token]bool
	decodeErrAt int // 1-based index of the decode call that fails
	decodeCalls int
}

func (f *fakeRuntime) InitBackend() error { return nil }
func (f *fakeRuntime) FreeBackend()       {}

func (f *fakeRuntime) LoadModel(path string) (engine.Model, error) {
	f.lastLoadedPath = path
	return &fakeModel{rt: f}, nil
}

func (f *fakeRuntime) NewSampler(temperature float32, seed uint32) engine.Sampler {
	f.lastTemperature = temperature
	return &fakeSampler{rt: f}
}

type fakeModel struct{ rt *fakeRuntime }

func (m *fakeModel) NewContext(params engine.ContextParams) (engine.Context, error) {
	m.rt.lastContextParams = params
	return &fakeContext{rt: m.rt}, nil
}

func (m *fakeModel) Vocab() engine.Vocab { return &fakeVocab{rt: m.rt} }
func (m *fakeModel) Free()               {}

type fakeContext struct{ rt *fakeRuntime }

func (c *fakeContext) ClearMemory() {}

func (c *fakeContext) Decode(tokens []engine.Token) error {
	c.rt.decodeCalls++
	if c.rt.decodeErrAt > 0 && c.rt.decodeCalls == c.rt.decodeErrAt {
		return fmt.Errorf("decode call %d failed", c.rt.decodeCalls)
	}
	return nil
}

func (c *fakeContext) Free() {}

type fakeVocab struct{ rt *fakeRuntime }

func (v *fakeVocab) Encode(text string, max int) ([]engine.Token, error) {
	toks := tokensFor(text)
	if len(toks) > max {
		return nil, fmt.Errorf("prompt is %d tokens, context holds %d", len(toks), max)
	}
	return toks, nil
}

func (v *fakeVocab) Piece(t engine.Token) (string, error) {
	return string(rune(t)), nil
}

func (v *fakeVocab) IsEOG(t engine.Token) bool { return v.rt.eog[t] }

type fakeSampler struct {
	rt  *fakeRuntime
	pos int
}

func (s *fakeSampler) Sample(c engine.Context) engine.Token {
	if s.pos >= len(s.rt.script) {
		return 0
	}
	t := s.rt.script[s.pos]
	s.pos++
	return t
}

func (s *fakeSampler) Free() {}

func tokensFor(text string) []engine.Token {
	var toks []engine.Token
	for _, r := range text {
		toks = append(toks, engine.Token(r))
	}
	return toks
}
