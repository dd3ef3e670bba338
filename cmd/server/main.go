package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Dougal-McGuire/api-research/internal/config"
	"github.com/Dougal-McGuire/api-research/internal/prompt"
	"github.com/Dougal-McGuire/api-research/internal/research"
	"github.com/Dougal-McGuire/api-research/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// ── Logging ──────────────────────────────────────────────
	zapCfg := zap.NewProductionConfig()
	if cfg.Debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zapCfg.Build()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.OpenAIAPIKey == "" {
		logger.Fatal("OPENAI_API_KEY is required")
	}

	// ── Artifact store ───────────────────────────────────────
	var artifacts research.ArtifactStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := store.NewMinioStore(
			ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
		)
		if err != nil {
			logger.Fatal("minio connect", zap.Error(err))
		}
		artifacts = minioStore
		logger.Info("artifact store: minio", zap.String("bucket", cfg.MinioBucket))
	} else {
		localStore, err := store.NewLocalStore(cfg.ArtifactDir)
		if err != nil {
			logger.Fatal("artifact dir", zap.Error(err))
		}
		artifacts = localStore
		logger.Info("artifact store: local", zap.String("dir", cfg.ArtifactDir))
	}

	// ── Model cache (optional) ───────────────────────────────
	var cache research.ModelCache
	if cfg.RedisAddr != "" {
		modelCache, err := store.NewModelCache(ctx, cfg.RedisAddr, cfg.RedisPassword, time.Hour)
		if err != nil {
			logger.Fatal("redis connect", zap.Error(err))
		}
		defer modelCache.Close()
		cache = modelCache
		logger.Info("model cache: redis", zap.String("addr", cfg.RedisAddr))
	}

	// ── Research service ─────────────────────────────────────
	prompts := prompt.NewStore(cfg.TemplatePath)
	provider := research.NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey)
	service := research.NewService(provider, prompts, artifacts, cache, cfg.ModelFallbacks, logger)
	handler := research.NewHandler(service, prompts, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok","message":"API is healthy"}`))
		})
		r.Route("/research", handler.Routes)
	})

	// ── Server ───────────────────────────────────────────────
	// Long timeouts: a single research call can take minutes on the
	// reasoning models.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 5 * time.Minute,
	}

	go func() {
		logger.Info("backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
