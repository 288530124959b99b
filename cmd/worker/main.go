package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/talentsift/screening/internal/cache"
	"github.com/talentsift/screening/internal/config"
	"github.com/talentsift/screening/internal/database"
	"github.com/talentsift/screening/internal/extract"
	"github.com/talentsift/screening/internal/llm"
	"github.com/talentsift/screening/internal/queue"
	"github.com/talentsift/screening/internal/screening"
	"github.com/talentsift/screening/internal/storage"
	"github.com/talentsift/screening/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, cfg.Database.MigrationsPath); err != nil {
		slog.Error("run migrations", "error", err)
		os.Exit(1)
	}

	redisClient := cache.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	provider, err := llm.New(cfg.LLM)
	if err != nil {
		slog.Error("init llm provider", "error", err)
		os.Exit(1)
	}
	slog.Info("llm provider ready", "provider", provider.Name(), "model", cfg.LLM.Model)

	pipeline := screening.NewPipeline(
		store.New(pool),
		storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey),
		extract.New(cfg.Pipeline.MaxTextLength),
		screening.NewProfileParser(provider, cfg.LLM.MaxTokens),
		screening.NewFallbackParser(),
		screening.NewSummarizer(provider, cfg.LLM.MaxTokens),
		screening.NewSkillMatcher(provider, cfg.LLM.MaxTokens),
		cache.NewProcessLock(redisClient),
		screening.Options{
			Bucket:        cfg.Storage.Bucket,
			MinTextLength: cfg.Pipeline.MinTextLength,
			LockTTL:       time.Duration(cfg.Pipeline.LockTTLSec) * time.Second,
		},
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      map[string]int{"default": 1},
		},
	)
	mux := queue.NewMux(queue.NewCVWorker(pipeline))

	healthSrv := &http.Server{
		Addr:    cfg.Worker.HealthAddr,
		Handler: healthRouter(pool, redisClient),
	}
	go func() {
		slog.Info("health server listening", "addr", cfg.Worker.HealthAddr)
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("health server", "error", err)
		}
	}()

	go func() {
		slog.Info("worker starting", "concurrency", cfg.Worker.Concurrency)
		if err := srv.Run(mux); err != nil {
			slog.Error("worker server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	srv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("health server shutdown", "error", err)
	}
}

func healthRouter(pool *pgxpool.Pool, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})

	return r
}
