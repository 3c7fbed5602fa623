package engine

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// State is the lifecycle state of an Engine.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateBackendReady  State = "backend_ready"
	StateLoaded        State = "loaded"
)

// Engine owns one model/context pair and runs generation against it.
// All operations are synchronous and run to completion on the calling
// goroutine. The mutex is held for whole operations, Generate included,
// so concurrent callers queue up behind one generation at a time.
type Engine struct {
	mu  sync.Mutex
	rt  Runtime
	log zerolog.Logger

	state State
	model Model
	ctx   Context
	vocab Vocab

	capacity int
	threads  int
	path     string
}

// New constructs an Engine over the given runtime. The backend is not
// initialized until Init is called.
func New(rt Runtime, log zerolog.Logger) *Engine {
	return &Engine{rt: rt, log: log, state: StateUninitialized}
}

// Init performs process-wide backend setup. Idempotent.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateUninitialized {
		return nil
	}
	if err := e.rt.InitBackend(); err != nil {
		return err
	}
	e.log.Info().Msg("backend initialized")
	e.state = StateBackendReady
	return nil
}

// Load parses the model file at path and allocates an inference context
// sized to capacity tokens using threads for both prompt and batch decode.
// A previously loaded model is fully freed (context first, then model)
// before the new load is attempted, so repeated loads never leak. On any
// failure the engine is left unloaded with no partial resources retained.
func (e *Engine) Load(path string, threads, capacity int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateUninitialized {
		return loadError{path: path, cause: errors.New("backend not initialized")}
	}
	if threads < 1 || capacity < 1 {
		return loadError{path: path, cause: errors.New("threads and capacity must be >= 1")}
	}
	e.unloadLocked()

	e.log.Info().Str("path", path).Int("threads", threads).Int("capacity", capacity).Msg("loading model")
	m, err := e.rt.LoadModel(path)
	if err != nil {
		e.log.Error().Err(err).Str("path", path).Msg("model load failed")
		return loadError{path: path, cause: err}
	}
	ctx, err := m.NewContext(ContextParams{Capacity: capacity, Threads: threads})
	if err != nil {
		m.Free()
		e.log.Error().Err(err).Msg("context allocation failed")
		return loadError{path: path, cause: err}
	}

	e.model = m
	e.ctx = ctx
	e.vocab = m.Vocab()
	e.capacity = capacity
	e.threads = threads
	e.path = path
	e.state = StateLoaded
	e.log.Info().Str("path", path).Msg("model loaded")
	return nil
}

// Loaded reports whether a model is currently loaded. Pure query.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state == StateLoaded
}

// Status describes the engine for reporting surfaces.
type Status struct {
	State     State  `json:"state"`
	ModelPath string `json:"model_path,omitempty"`
	Capacity  int    `json:"context_capacity,omitempty"`
	Threads   int    `json:"threads,omitempty"`
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Status{State: e.state}
	if e.state == StateLoaded {
		s.ModelPath = e.path
		s.Capacity = e.capacity
		s.Threads = e.threads
	}
	return s
}

// Unload frees the context and model, leaving the backend ready for another
// Load. No-op when nothing is loaded.
func (e *Engine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
}

// Close frees the context, then the model, then the backend itself,
// returning the engine to the uninitialized state. Safe to call repeatedly.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.unloadLocked()
	if e.state == StateBackendReady {
		e.rt.FreeBackend()
		e.log.Info().Msg("backend released")
	}
	e.state = StateUninitialized
	return nil
}

// unloadLocked frees context before model. Callers hold e.mu.
func (e *Engine) unloadLocked() {
	if e.ctx != nil {
		e.ctx.Free()
		e.ctx = nil
	}
	if e.model != nil {
		e.model.Free()
		e.model = nil
		e.log.Info().Str("path", e.path).Msg("model unloaded")
	}
	e.vocab = nil
	e.path = ""
	e.capacity = 0
	e.threads = 0
	if e.state == StateLoaded {
		e.state = StateBackendReady
	}
}
