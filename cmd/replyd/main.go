package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"replyd/internal/config"
	"replyd/internal/engine"
	"replyd/internal/httpapi"
	"replyd/internal/manager"
	"replyd/internal/registry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath     string
		addr        string
		modelsDir   string
		model       string
		libPath     string
		threads     int
		ctxCapacity int
		maxTokens   int
		temperature float64
		logLevel    string
		corsOrigins string
		maxBody     int64
	)

	root := &cobra.Command{
		Use:           "replyd",
		Short:         "Local LLM reply daemon over llama.cpp",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{}
			if cfgPath != "" {
				var err error
				cfg, err = config.Load(cfgPath)
				if err != nil {
					return err
				}
			}
			// Flags given on the command line override the file.
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("models-dir") || cfg.ModelsDir == "" {
				cfg.ModelsDir = modelsDir
			}
			if cmd.Flags().Changed("model") {
				cfg.DefaultModel = model
			}
			if cmd.Flags().Changed("lib-path") {
				cfg.LibPath = libPath
			}
			if cmd.Flags().Changed("threads") {
				cfg.Threads = threads
			}
			if cmd.Flags().Changed("ctx") {
				cfg.ContextCapacity = ctxCapacity
			}
			if cmd.Flags().Changed("max-tokens") {
				cfg.MaxTokens = maxTokens
			}
			if cmd.Flags().Changed("temperature") {
				cfg.Temperature = temperature
			}
			if cmd.Flags().Changed("log-level") || cfg.LogLevel == "" {
				cfg.LogLevel = logLevel
			}
			return run(cfg, corsOrigins, maxBody)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "Config file (.yaml/.json/.toml), flags override")
	root.Flags().StringVar(&addr, "addr", envOr("REPLYD_ADDR", ":8080"), "HTTP listen address")
	root.Flags().StringVar(&modelsDir, "models-dir", "~/models/llm", "Directory to scan for *.gguf model files")
	root.Flags().StringVar(&model, "model", "", "Default model id when a load request omits one")
	root.Flags().StringVar(&libPath, "lib-path", envOr("REPLYD_LIB_PATH", ""), "Directory holding the llama.cpp shared libraries")
	root.Flags().IntVar(&threads, "threads", 0, "Decode threads (0 uses the built-in default)")
	root.Flags().IntVar(&ctxCapacity, "ctx", 0, "Context capacity in tokens (0 uses the built-in default)")
	root.Flags().IntVar(&maxTokens, "max-tokens", 0, "Default max new tokens per generation")
	root.Flags().Float64Var(&temperature, "temperature", 0, "Default sampling temperature")
	root.Flags().StringVar(&logLevel, "log-level", envOr("REPLYD_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.Flags().StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	root.Flags().Int64Var(&maxBody, "max-body-bytes", 0, "Max JSON request body size (0 keeps the default)")

	return root
}

func run(cfg config.Config, corsOrigins string, maxBody int64) error {
	log := newLogger(cfg.LogLevel)

	reg, err := registry.LoadDir(cfg.ModelsDir)
	if err != nil {
		log.Error().Err(err).Str("dir", cfg.ModelsDir).Msg("scan models dir")
		return err
	}
	log.Info().Int("models", len(reg)).Str("dir", cfg.ModelsDir).Msg("registry loaded")

	if cfg.LibPath != "" {
		if _, err := os.Stat(cfg.LibPath); err != nil {
			log.Warn().Str("lib_path", cfg.LibPath).Msg("llama library path does not exist")
		}
	}

	eng := engine.New(engine.NewLlamaRuntime(cfg.LibPath), log)
	mgr := manager.New(eng, manager.Config{
		Registry:        reg,
		DefaultModel:    cfg.DefaultModel,
		Threads:         cfg.Threads,
		ContextCapacity: cfg.ContextCapacity,
		MaxTokens:       cfg.MaxTokens,
		Temperature:     cfg.Temperature,
		Seed:            cfg.Seed,
		StopMarkers:     cfg.StopMarkers,
	})
	defer mgr.Close()

	httpapi.SetLogger(log)
	if maxBody > 0 {
		httpapi.SetMaxBodyBytes(maxBody)
	}
	if origins := splitCSV(corsOrigins); len(origins) > 0 {
		httpapi.SetCORSOptions(true, origins,
			[]string{http.MethodGet, http.MethodPost},
			[]string{"Content-Type"})
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Bool("runtime", engine.RuntimeBuilt()).Msg("replyd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown")
	}
	return nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated flag value, trimming spaces and
// dropping empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
