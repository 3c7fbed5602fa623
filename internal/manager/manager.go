// Package manager ties the inference engine to the model registry and the
// daemon's generation defaults. It is the single caller of the engine: the
// engine's own operation lock serializes work, so concurrent HTTP handlers
// queue up behind one generation at a time.
package manager

import (
	"strings"
	"time"

	"replyd/internal/engine"
	"replyd/internal/registry"
	"replyd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultThreads         = 4
	defaultContextCapacity = 2048
	defaultMaxTokens       = 256
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	Registry     []types.Model
	DefaultModel string

	// Engine sizing defaults, used when a load request omits them.
	Threads         int
	ContextCapacity int

	// Generation defaults, used when a generate request omits them.
	MaxTokens   int
	Temperature float64
	Seed        uint32
	StopMarkers []string
}

// Manager exposes load/generate/unload over one engine instance.
type Manager struct {
	eng       *engine.Engine
	cfg       Config
	startTime time.Time
}

// New constructs a Manager around eng, applying package defaults for
// unset config fields.
func New(eng *engine.Engine, cfg Config) *Manager {
	if cfg.Threads <= 0 {
		cfg.Threads = defaultThreads
	}
	if cfg.ContextCapacity <= 0 {
		cfg.ContextCapacity = defaultContextCapacity
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Manager{eng: eng, cfg: cfg, startTime: time.Now()}
}

// ListModels returns the discovered registry.
func (m *Manager) ListModels() []types.Model {
	out := make([]types.Model, len(m.cfg.Registry))
	copy(out, m.cfg.Registry)
	return out
}

// Ready reports whether a model is loaded and ready to generate.
func (m *Manager) Ready() bool { return m.eng.Loaded() }

// Load resolves the request to a model path and loads it, superseding any
// previously loaded model. An empty request falls back to the configured
// default model.
func (m *Manager) Load(req types.LoadRequest) error {
	path := strings.TrimSpace(req.Path)
	if path == "" {
		id := req.Model
		if id == "" {
			id = m.cfg.DefaultModel
		}
		if id == "" {
			return ErrModelNotFound("(unspecified)")
		}
		mdl, ok := registry.ByID(m.cfg.Registry, id)
		if !ok {
			return ErrModelNotFound(id)
		}
		path = mdl.Path
	}
	threads := req.Threads
	if threads <= 0 {
		threads = m.cfg.Threads
	}
	capacity := req.ContextCapacity
	if capacity <= 0 {
		capacity = m.cfg.ContextCapacity
	}
	if err := m.eng.Init(); err != nil {
		return err
	}
	return m.eng.Load(path, threads, capacity)
}

// Generate produces one whole reply for the request. A decode failure
// mid-generation is reported as a normal response carrying the partial
// text with finish_reason "decode_error", matching the engine contract
// (partial success, not a hard failure).
func (m *Manager) Generate(req types.GenerateRequest) (types.GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = m.cfg.MaxTokens
	}
	temp := m.cfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	seed := req.Seed
	if seed == 0 {
		seed = m.cfg.Seed
	}
	stop := req.Stop
	if stop == nil {
		stop = m.cfg.StopMarkers
	}
	res, err := m.eng.Generate(req.Prompt, engine.GenerateOptions{
		MaxTokens:   maxTokens,
		Temperature: float32(temp),
		Seed:        seed,
		StopMarkers: stop,
	})
	if err != nil && !engine.IsDecodeInterrupted(err) {
		return types.GenerateResponse{}, err
	}
	return types.GenerateResponse{
		Reply:        res.Text,
		Tokens:       res.Tokens,
		FinishReason: res.FinishReason,
	}, nil
}

// Unload frees the loaded model, keeping the backend ready for another load.
func (m *Manager) Unload() { m.eng.Unload() }

// Close tears the engine down completely.
func (m *Manager) Close() error { return m.eng.Close() }

// Status reports the engine state for the /status endpoint.
func (m *Manager) Status() types.StatusResponse {
	st := m.eng.Status()
	now := time.Now()
	return types.StatusResponse{
		State:           string(st.State),
		ModelPath:       st.ModelPath,
		ContextCapacity: st.Capacity,
		Threads:         st.Threads,
		RuntimeBuilt:    engine.RuntimeBuilt(),
		UptimeSeconds:   int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix:  now.Unix(),
	}
}
