package engine

import (
	"errors"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
)

// fakeRuntime is an in-memory Runtime with resource accounting. Every
// lifecycle event is appended to events so tests can assert ordering
// (context freed before model, model before backend, and so on).
type fakeRuntime struct {
	events []string

	loadErr   error // returned by LoadModel
	ctxErr    error // returned by NewContext
	decodeErr error // returned by the decode numbered decodeErrAt
	// decodeErrAt fails the Nth Decode call across the runtime (1-based).
	// Zero never fails.
	decodeErrAt int
	decodeCalls int

	// script is the token sequence samplers yield, restarted per sampler.
	script []Token
	// eog marks end-of-generation token ids.
	eog map[Token]bool

	modelsFreed   int
	ctxsFreed     int
	samplersFreed int
	clears        int
}

func (f *fakeRuntime) InitBackend() error {
	f.events = append(f.events, "backend.init")
	return nil
}

func (f *fakeRuntime) FreeBackend() {
	f.events = append(f.events, "backend.free")
}

func (f *fakeRuntime) LoadModel(path string) (Model, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.events = append(f.events, "model.load:"+path)
	return &fakeModel{rt: f, path: path}, nil
}

func (f *fakeRuntime) NewSampler(temperature float32, seed uint32) Sampler {
	f.events = append(f.events, "sampler.new")
	return &fakeSampler{rt: f}
}

type fakeModel struct {
	rt   *fakeRuntime
	path string
}

func (m *fakeModel) NewContext(p ContextParams) (Context, error) {
	if m.rt.ctxErr != nil {
		return nil, m.rt.ctxErr
	}
	m.rt.events = append(m.rt.events, "ctx.new")
	return &fakeContext{rt: m.rt, capacity: p.Capacity}, nil
}

func (m *fakeModel) Vocab() Vocab { return &fakeVocab{rt: m.rt} }

func (m *fakeModel) Free() {
	m.rt.modelsFreed++
	m.rt.events = append(m.rt.events, "model.free:"+m.path)
}

type fakeContext struct {
	rt       *fakeRuntime
	capacity int
	batches  [][]Token
}

func (c *fakeContext) ClearMemory() {
	c.rt.clears++
	c.rt.events = append(c.rt.events, "ctx.clear")
}

func (c *fakeContext) Decode(tokens []Token) error {
	c.rt.decodeCalls++
	if c.rt.decodeErrAt > 0 && c.rt.decodeCalls == c.rt.decodeErrAt {
		err := c.rt.decodeErr
		if err == nil {
			err = errors.New("decode failed")
		}
		return err
	}
	cp := append([]Token(nil), tokens...)
	c.batches = append(c.batches, cp)
	c.rt.events = append(c.rt.events, "ctx.decode:"+strconv.Itoa(len(tokens)))
	return nil
}

func (c *fakeContext) Free() {
	c.rt.ctxsFreed++
	c.rt.events = append(c.rt.events, "ctx.free")
}

// fakeVocab maps one rune to one token whose id is the rune value, so
// encode/decode round-trips byte for byte.
type fakeVocab struct {
	rt *fakeRuntime
}

func (v *fakeVocab) Encode(text string, max int) ([]Token, error) {
	var out []Token
	for _, r := range text {
		out = append(out, Token(r))
	}
	if len(out) > max {
		return nil, tokenizeOverflowError{capacity: max}
	}
	return out, nil
}

func (v *fakeVocab) Piece(t Token) (string, error) {
	return string(rune(t)), nil
}

func (v *fakeVocab) IsEOG(t Token) bool { return v.rt.eog[t] }

// fakeSampler replays the runtime script from the start. A fresh sampler
// therefore makes back-to-back generations deterministic, matching the
// fixed-seed behavior of the real chain.
type fakeSampler struct {
	rt  *fakeRuntime
	pos int
}

func (s *fakeSampler) Sample(c Context) Token {
	if s.pos >= len(s.rt.script) {
		return 0
	}
	t := s.rt.script[s.pos]
	s.pos++
	return t
}

func (s *fakeSampler) Free() {
	s.rt.samplersFreed++
	s.rt.events = append(s.rt.events, "sampler.free")
}

// tokensFor converts text into the fake vocabulary's token sequence.
func tokensFor(text string) []Token {
	var out []Token
	for _, r := range text {
		out = append(out, Token(r))
	}
	return out
}

// newTestEngine returns a loaded engine over the given fake.
func newTestEngine(t *testing.T, f *fakeRuntime, capacity int) *Engine {
	t.Helper()
	e := New(f, zerolog.Nop())
	if err := e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := e.Load("test.gguf", 2, capacity); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}
