package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/femivideograph/script-ai-worker/internal/ai"
	"github.com/femivideograph/script-ai-worker/internal/cache"
	"github.com/femivideograph/script-ai-worker/internal/config"
	httpserver "github.com/femivideograph/script-ai-worker/internal/http"
	"github.com/femivideograph/script-ai-worker/internal/http/handlers"
	"github.com/femivideograph/script-ai-worker/internal/jobs"
	"github.com/femivideograph/script-ai-worker/internal/quality"
	"github.com/femivideograph/script-ai-worker/internal/queue"
	"github.com/femivideograph/script-ai-worker/internal/repository"
	"github.com/femivideograph/script-ai-worker/internal/scenes"
	"github.com/femivideograph/script-ai-worker/internal/script"
	"github.com/femivideograph/script-ai-worker/internal/service"
	"github.com/femivideograph/script-ai-worker/internal/storage"
	"github.com/femivideograph/script-ai-worker/internal/worker"
)

func main() {
	logger := log.New(os.Stdout, "[script-ai] ", log.LstdFlags|log.LUTC|log.Lmicroseconds)
	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		logger.Printf("failed loading .env files: %v", err)
	}
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	status, statusCloser := setupStatusRepository(ctx, cfg, logger)
	defer statusCloser()

	blobs := setupBlobStore(cfg, logger)

	producer, consumer, queueCloser := setupQueue(ctx, cfg, logger)
	defer queueCloser()

	planner := setupPlanner(ctx, cfg, logger)
	sceneCache := cache.NewSceneCache(cache.Config{
		TTL:        time.Duration(cfg.SceneCacheTTLSeconds) * time.Second,
		MaxEntries: cfg.SceneCacheMaxEntries,
	})
	processor := scenes.NewProcessor(scenes.ProcessorConfig{
		Planner:   planner,
		Validator: quality.NewBreakdownValidator(),
		Cache:     sceneCache,
		ModelRef:  cfg.GeminiModel,
		Logger:    logger,
	})

	fetcher := storage.NewFetcher(blobs, storage.FetcherConfig{
		MaxAttempts: cfg.FetchMaxAttempts,
		BaseWait:    time.Duration(cfg.FetchBaseWaitMS) * time.Millisecond,
		Logger:      logger,
	})
	engine := jobs.NewEngine(jobs.EngineConfig{
		Status:    status,
		Fetcher:   fetcher,
		Blobs:     blobs,
		Processor: processor,
		Chunk:     script.Chunk,
		Logger:    logger,
	})
	dispatcher := jobs.NewDispatcher(engine, status, logger)

	scripts := service.NewScriptsService(blobs, producer, dispatcher)
	api := handlers.NewAPI(scripts)

	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      cfg.AuthToken,
		CORSOrigins:    strings.Split(cfg.AllowedOrigins, ","),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	if cfg.WorkerEnabled {
		jobWorker := worker.NewProcessor(consumer, dispatcher, logger)
		go jobWorker.Start(ctx)
		logger.Printf("worker enabled and started")
	} else {
		logger.Printf("worker disabled by configuration")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Printf("api listening on :%s", cfg.Port)
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("server failed: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	dispatcher.Wait()
}

func setupStatusRepository(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (repository.StatusRepository, func()) {
	if cfg.DatabaseURL == "" {
		logger.Printf("DATABASE_URL not configured, using in-memory status repository")
		return repository.NewMemoryStatusRepository(), func() {}
	}

	pgRepo, err := repository.NewPostgresStatusRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Printf("failed to initialize postgres status repository, fallback to memory: %v", err)
		return repository.NewMemoryStatusRepository(), func() {}
	}
	logger.Printf("postgres status repository initialized")
	return pgRepo, func() {
		pgRepo.Close()
	}
}

func setupBlobStore(cfg config.Config, logger *log.Logger) storage.BlobStore {
	if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
		logger.Printf("supabase storage not configured, using in-memory blob store")
		return storage.NewMemoryBlobStore()
	}

	supabase, err := storage.NewSupabaseBlobStore(storage.SupabaseConfig{
		ProjectURL: cfg.SupabaseURL,
		ServiceKey: cfg.SupabaseServiceKey,
		Bucket:     cfg.SupabaseBucket,
	})
	if err != nil {
		logger.Printf("failed to initialize supabase blob store, fallback to memory: %v", err)
		return storage.NewMemoryBlobStore()
	}
	logger.Printf("supabase blob store initialized bucket=%s", cfg.SupabaseBucket)
	return supabase
}

func setupQueue(
	ctx context.Context,
	cfg config.Config,
	logger *log.Logger,
) (queue.Producer, queue.Consumer, func()) {
	if cfg.RedisAddr == "" {
		logger.Printf("REDIS_ADDR not configured, using local queue fallback")
		local := queue.NewLocalQueue(512, 3, logger)
		return local, local, func() {}
	}

	streams, err := queue.NewStreamsQueue(ctx, queue.StreamsConfig{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		Stream:      cfg.RedisStream,
		DLQStream:   cfg.RedisDLQ,
		Group:       cfg.RedisGroup,
		Consumer:    cfg.RedisConsumer,
		MaxAttempts: 3,
	})
	if err != nil {
		logger.Printf("failed to initialize redis streams queue, fallback to local: %v", err)
		local := queue.NewLocalQueue(512, 3, logger)
		return local, local, func() {}
	}
	logger.Printf("redis streams queue initialized stream=%s group=%s", cfg.RedisStream, cfg.RedisGroup)
	return streams, streams, func() {
		_ = streams.Close()
	}
}

func setupPlanner(ctx context.Context, cfg config.Config, logger *log.Logger) ai.ShotPlanner {
	client, err := ai.NewGeminiClient(ctx, ai.GeminiClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: time.Duration(cfg.GeminiTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		logger.Printf("gemini client unavailable, scene processing will fail per scene: %v", err)
		return ai.PlannerFunc(func(context.Context, ai.SceneRequest) (ai.SceneBreakdown, error) {
			return ai.SceneBreakdown{}, ai.ErrGeminiUnavailable
		})
	}
	logger.Printf("gemini client initialized model=%s", cfg.GeminiModel)
	return client
}
