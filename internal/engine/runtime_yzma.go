//go:build yzma

package engine

import (
	"errors"
	"fmt"

	"github.com/hybridgroup/yzma/pkg/llama"
)

// runtimeBuilt indicates this binary carries the real llama runtime.
var runtimeBuilt = true

// yzmaRuntime drives llama.cpp through yzma's purego bindings. No CGO:
// prebuilt libllama/libggml shared libraries are loaded from libPath at
// backend init.
type yzmaRuntime struct {
	libPath string
	loaded  bool
}

// NewLlamaRuntime returns a Runtime backed by llama.cpp libraries under
// libPath (e.g. ./lib/llama, populated by `yzma install`).
func NewLlamaRuntime(libPath string) Runtime {
	return &yzmaRuntime{libPath: libPath}
}

func (r *yzmaRuntime) InitBackend() error {
	if !r.loaded {
		if err := llama.Load(r.libPath); err != nil {
			return fmt.Errorf("load llama libraries from %s: %w", r.libPath, err)
		}
		r.loaded = true
	}
	llama.Init()
	return nil
}

func (r *yzmaRuntime) FreeBackend() {
	llama.BackendFree()
}

func (r *yzmaRuntime) LoadModel(path string) (Model, error) {
	m, err := llama.ModelLoadFromFile(path, llama.ModelDefaultParams())
	if err != nil {
		return nil, err
	}
	return &yzmaModel{m: m}, nil
}

func (r *yzmaRuntime) NewSampler(temperature float32, seed uint32) Sampler {
	chain := llama.SamplerChainInit(llama.SamplerChainDefaultParams())
	llama.SamplerChainAdd(chain, llama.SamplerInitTemp(temperature))
	llama.SamplerChainAdd(chain, llama.SamplerInitDist(seed))
	return &yzmaSampler{chain: chain}
}

type yzmaModel struct {
	m llama.Model
}

func (m *yzmaModel) NewContext(p ContextParams) (Context, error) {
	cp := llama.ContextDefaultParams()
	cp.NCtx = uint32(p.Capacity)
	cp.NBatch = uint32(p.Capacity)
	cp.NThreads = int32(p.Threads)
	cp.NThreadsBatch = int32(p.Threads)
	lctx, err := llama.InitFromModel(m.m, cp)
	if err != nil {
		return nil, err
	}
	return &yzmaContext{ctx: lctx}, nil
}

func (m *yzmaModel) Vocab() Vocab {
	return &yzmaVocab{v: llama.ModelGetVocab(m.m)}
}

func (m *yzmaModel) Free() {
	llama.ModelFree(m.m)
}

type yzmaContext struct {
	ctx llama.Context
}

func (c *yzmaContext) ClearMemory() {
	mem := llama.GetMemory(c.ctx)
	llama.MemoryClear(mem, true)
}

func (c *yzmaContext) Decode(tokens []Token) error {
	lt := make([]llama.Token, len(tokens))
	for i, t := range tokens {
		lt[i] = llama.Token(t)
	}
	// BatchGetOne returns a stack-allocated batch; it must not be freed.
	batch := llama.BatchGetOne(lt)
	if _, err := llama.Decode(c.ctx, batch); err != nil {
		return err
	}
	return nil
}

func (c *yzmaContext) Free() {
	llama.Free(c.ctx)
}

type yzmaVocab struct {
	v llama.Vocab
}

func (v *yzmaVocab) Encode(text string, max int) ([]Token, error) {
	// add_special and parse_special are both always on: the model's control
	// tokens are added and in-text markup like <|im_start|> tokenizes as
	// control tokens rather than literal text.
	lt := llama.Tokenize(v.v, text, true, true)
	if len(lt) == 0 && text != "" {
		return nil, errors.New("tokenize failed")
	}
	if len(lt) > max {
		return nil, tokenizeOverflowError{capacity: max}
	}
	out := make([]Token, len(lt))
	for i, t := range lt {
		out[i] = Token(t)
	}
	return out, nil
}

func (v *yzmaVocab) Piece(t Token) (string, error) {
	var buf [pieceBufSize]byte
	n := llama.TokenToPiece(v.v, llama.Token(t), buf[:], 0, true)
	if n < 0 {
		return "", fmt.Errorf("token piece longer than %d bytes", pieceBufSize)
	}
	return string(buf[:n]), nil
}

func (v *yzmaVocab) IsEOG(t Token) bool {
	return llama.VocabIsEOG(v.v, llama.Token(t))
}

type yzmaSampler struct {
	chain llama.Sampler
}

func (s *yzmaSampler) Sample(c Context) Token {
	yc := c.(*yzmaContext)
	// -1 samples from logits at the last decoded position.
	return Token(llama.SamplerSample(s.chain, yc.ctx, -1))
}

func (s *yzmaSampler) Free() {
	llama.SamplerFree(s.chain)
}
