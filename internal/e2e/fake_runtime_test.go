package e2e

import (
	"fmt"

	"replyd/internal/engine"
)

// scriptedRuntime is an engine.Runtime whose sampler replays a fixed token
// sequence. The vocabulary maps one rune to one token (id = rune value) and
// token 0 acts as the end-of-generation marker.
type scriptedRuntime struct {
	script []engine.Token
}

func scriptFor(text string) []engine.Token {
	var toks []engine.Token
	for _, r := range text {
		toks = append(toks, engine.Token(r))
	}
	return toks
}

func (f *scriptedRuntime) InitBackend() error { return nil }
func (f *scriptedRuntime) FreeBackend()       {}

func (f *scriptedRuntime) LoadModel(path string) (engine.Model, error) {
	return scriptedModel{rt: f}, nil
}

func (f *scriptedRuntime) NewSampler(temperature float32, seed uint32) engine.Sampler {
	return &scriptedSampler{rt: f}
}

type scriptedModel struct{ rt *scriptedRuntime }

func (m scriptedModel) NewContext(params engine.ContextParams) (engine.Context, error) {
	if params.Capacity <= 0 {
		return nil, fmt.Errorf("bad capacity %d", params.Capacity)
	}
	return scriptedContext{}, nil
}

func (m scriptedModel) Vocab() engine.Vocab { return scriptedVocab{} }
func (m scriptedModel) Free()               {}

type scriptedContext struct{}

func (scriptedContext) ClearMemory()                      {}
func (scriptedContext) Decode(tokens []engine.Token) error { return nil }
func (scriptedContext) Free()                              {}

type scriptedVocab struct{}

func (scriptedVocab) Encode(text string, max int) ([]engine.Token, error) {
	toks := scriptFor(text)
	if len(toks) > max {
		return nil, engine.ErrTokenizeOverflow(max)
	}
	return toks, nil
}

func (scriptedVocab) Piece(t engine.Token) (string, error) { return string(rune(t)), nil }
func (scriptedVocab) IsEOG(t engine.Token) bool            { return t == 0 }

type scriptedSampler struct {
	rt  *scriptedRuntime
	pos int
}

func (s *scriptedSampler) Sample(c engine.Context) engine.Token {
	if s.pos >= len(s.rt.script) {
		return 0
	}
	t := s.rt.script[s.pos]
	s.pos++
	return t
}

func (s *scriptedSampler) Free() {}
