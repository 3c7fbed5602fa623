package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"replyd/internal/engine"
	"replyd/internal/manager"
	"replyd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	ListModels() []types.Model
	Status() types.StatusResponse
	Load(req types.LoadRequest) error
	Generate(req types.GenerateRequest) (types.GenerateResponse, error)
	Unload()
	Ready() bool
}

// NewMux builds the daemon's router over svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)

	// ListModels godoc
	// @Summary      List discovered models
	// @Produce      json
	// @Success      200 {object} types.ModelsResponse
	// @Router       /models [get]
	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	// Status godoc
	// @Summary      Engine and daemon status
	// @Produce      json
	// @Success      200 {object} types.StatusResponse
	// @Router       /status [get]
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Status())
	})

	// Load godoc
	// @Summary      Load a model, replacing any loaded one
	// @Accept       json
	// @Produce      json
	// @Param        request body types.LoadRequest true "model id or path plus sizing"
	// @Success      200 {object} types.StatusResponse
	// @Failure      404 {object} types.ErrorResponse
	// @Failure      503 {object} types.ErrorResponse
	// @Router       /load [post]
	r.Post("/load", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		start := time.Now()
		if err := svc.Load(req); err != nil {
			writeServiceError(w, r, err)
			logRequest(r, start, "load", err)
			return
		}
		logRequest(r, start, "load", nil)
		writeJSON(w, http.StatusOK, svc.Status())
	})

	// Generate godoc
	// @Summary      Produce one whole reply for a prompt
	// @Accept       json
	// @Produce      json
	// @Param        request body types.GenerateRequest true "prompt and sampling knobs"
	// @Success      200 {object} types.GenerateResponse
	// @Failure      409 {object} types.ErrorResponse
	// @Failure      413 {object} types.ErrorResponse
	// @Router       /generate [post]
	r.Post("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req types.GenerateRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}
		start := time.Now()
		resp, err := svc.Generate(req)
		if err != nil {
			writeServiceError(w, r, err)
			logRequest(r, start, "generate", err)
			return
		}
		ObserveGeneration(resp.Tokens, resp.FinishReason)
		logRequest(r, start, "generate", nil)
		writeJSON(w, http.StatusOK, resp)
	})

	// Unload godoc
	// @Summary      Free the loaded model, keeping the backend alive
	// @Success      204
	// @Router       /unload [post]
	r.Post("/unload", func(w http.ResponseWriter, r *http.Request) {
		svc.Unload()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("no model loaded"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// decodeJSONBody enforces the JSON content type and body-size cap, then
// decodes into dst. It writes the error response itself and reports
// whether the handler should proceed.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		// MaxBytesReader failures land here too; 400 avoids leaking limits
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps well-known engine and manager errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case manager.IsModelNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case engine.IsNotLoaded(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	case engine.IsTokenizeOverflow(err):
		writeJSONError(w, http.StatusRequestEntityTooLarge, err.Error())
	case engine.IsRuntimeUnavailable(err):
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
	case engine.IsPrefillFailed(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && zlog != nil {
		zlog.Error().Err(err).Msg("encode response")
	}
}

func logRequest(r *http.Request, start time.Time, op string, err error) {
	if zlog == nil {
		return
	}
	ev := zlog.Info()
	if err != nil {
		ev = zlog.Error().Err(err)
	}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	ev.Str("op", op).Str("path", r.URL.Path).Dur("dur", time.Since(start)).Msg("request")
}
