package engine

import (
	"strings"
)

// DefaultSeed matches llama.cpp's LLAMA_DEFAULT_SEED. Every call sampling
// with it is deterministic for identical prompt and parameters.
const DefaultSeed uint32 = 0xFFFFFFFF

// DefaultStopMarkers is the ChatML end-of-turn marker used by Qwen-family
// chat models. Callers targeting other template families pass their own set.
var DefaultStopMarkers = []string{"<|im_end|>"}

// Finish reasons reported in Result.
const (
	FinishEOG        = "eog"
	FinishStopMarker = "stop_marker"
	FinishLength     = "length"
	FinishDecodeErr  = "decode_error"
)

// GenerateOptions tunes a single Generate call.
type GenerateOptions struct {
	// MaxTokens bounds the number of sampled tokens. Zero generates nothing.
	MaxTokens int
	// Temperature scales the logit distribution. Zero is near-greedy,
	// following llama.cpp's temperature-sampler convention.
	Temperature float32
	// Seed for the distribution draw. Zero selects DefaultSeed.
	Seed uint32
	// StopMarkers are literal substrings that truncate the reply where they
	// first appear. Nil selects DefaultStopMarkers; an empty non-nil slice
	// disables marker checking.
	StopMarkers []string
}

// Result is the outcome of one Generate call.
type Result struct {
	// Text is the accumulated reply, possibly partial on decode failure.
	Text string
	// Tokens is the number of sampled tokens whose text was kept.
	Tokens int
	// FinishReason is one of the Finish constants.
	FinishReason string
}

// Generate runs the full pipeline for one prompt: clear the KV cache,
// tokenize, prefill the whole prompt as one batch, then sample and decode
// one token at a time until an end-of-generation token is sampled, a stop
// marker appears in the accumulated text, MaxTokens is reached, or decode
// fails. The prompt must carry any conversation history the caller wants
// the model to see; nothing is retained between calls.
//
// A mid-generation decode failure returns the partial Result together with
// an error for which IsDecodeInterrupted reports true.
func (e *Engine) Generate(prompt string, opts GenerateOptions) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLoaded {
		return Result{}, ErrNotLoaded()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	markers := opts.StopMarkers
	if markers == nil {
		markers = DefaultStopMarkers
	}

	// Forget any prior turn before touching the prompt.
	e.ctx.ClearMemory()

	toks, err := e.vocab.Encode(prompt, e.capacity)
	if err != nil {
		e.log.Error().Err(err).Int("prompt_len", len(prompt)).Msg("tokenize failed")
		return Result{}, err
	}
	e.log.Debug().Int("prompt_tokens", len(toks)).Msg("prefill")
	if err := e.ctx.Decode(toks); err != nil {
		e.log.Error().Err(err).Msg("prompt decode failed")
		return Result{}, decodeError{phase: phasePrefill, cause: err}
	}

	sampler := e.rt.NewSampler(opts.Temperature, seed)
	defer sampler.Free()

	var out strings.Builder
	res := Result{FinishReason: FinishLength}
	for i := 0; i < opts.MaxTokens; i++ {
		tok := sampler.Sample(e.ctx)
		if e.vocab.IsEOG(tok) {
			e.log.Debug().Int("tokens", res.Tokens).Msg("end-of-generation token sampled")
			res.FinishReason = FinishEOG
			break
		}
		piece, perr := e.vocab.Piece(tok)
		if perr != nil {
			// Oversized or invalid piece: keep going without it.
			e.log.Warn().Err(perr).Int32("token", int32(tok)).Msg("token piece dropped")
		} else {
			out.WriteString(piece)
		}
		res.Tokens++
		if cut, hit := firstStopMarker(out.String(), markers); hit {
			res.Text = out.String()[:cut]
			res.FinishReason = FinishStopMarker
			return res, nil
		}
		if err := e.ctx.Decode([]Token{tok}); err != nil {
			e.log.Error().Err(err).Int("tokens", res.Tokens).Msg("decode failed mid-generation")
			res.Text = out.String()
			res.FinishReason = FinishDecodeErr
			return res, decodeError{phase: phaseToken, cause: err}
		}
	}
	res.Text = out.String()
	e.log.Info().Int("tokens", res.Tokens).Str("finish", res.FinishReason).Msg("generation done")
	return res, nil
}

// firstStopMarker returns the byte offset of the earliest marker occurrence
// in text and whether any marker was found.
func firstStopMarker(text string, markers []string) (int, bool) {
	cut := -1
	for _, m := range markers {
		if m == "" {
			continue
		}
		if idx := strings.Index(text, m); idx >= 0 && (cut < 0 || idx < cut) {
			cut = idx
		}
	}
	return cut, cut >= 0
}
