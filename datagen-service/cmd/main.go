package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/handler"
	"matjip/datagen-service/internal/app/datagen/infrastructure"
	"matjip/datagen-service/internal/app/datagen/infrastructure/messaging"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/datagen-service/internal/app/datagen/service"
	"matjip/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("datagen-service", logLevel)

	// Контекст прогона отменяется по SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	catalogRepo, err := repository.NewCatalogRepository(cfg.Data.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init catalog repository")
	}
	chunkRepo, err := repository.NewChunkRepository(cfg.Data.Dir)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to init chunk repository")
	}

	// === ОПЦИОНАЛЬНЫЕ ЗАВИСИМОСТИ ===
	// Redis: кэш сгенерированного контента
	var contentCache repository.ContentCacheRepository
	if cfg.Redis.Enabled() {
		redisClient, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		contentCache = repository.NewContentCacheRepository(redisClient, cfg.Redis.TTL)
		logger.Info().Str("addr", cfg.Redis.Address()).Msg("Connected to Redis")
	}

	// Kafka: события о записанных чанках
	var publisher infrastructure.MessagePublisher
	if cfg.Kafka.Enabled() {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
		logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")
	}

	// PostgreSQL: источник категорий для синтеза ресторанов
	var categoryRepo repository.CategoryRepository
	if cfg.Database.Enabled() {
		pool, err := connectPostgres(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		categoryRepo = repository.NewCategoryRepository(pool)
		logger.Info().Msg("Connected to PostgreSQL")
	}

	// Внешний сервис генерации текста
	var textGenClient service.TextGenClient
	if cfg.LLM.Enabled() {
		textGenClient = service.NewLLMAPIClient(cfg.LLM)
		logger.Info().Str("model", cfg.LLM.Model).Msg("Text generation client initialized")
	} else {
		logger.Warn().Msg("Text generation service not configured, using local fallback content")
	}

	// === СИНТЕЗ ВХОДНЫХ КАТАЛОГОВ ===
	// Отсутствующие входные файлы генерируются на месте
	if cfg.Synth.Force || !catalogRepo.HasUserAccounts() {
		userSynth := service.NewUserSynthesizer(catalogRepo, cfg.Synth.UserCount)
		if err := userSynth.Generate(); err != nil {
			logger.Fatal().Err(err).Msg("Failed to generate user catalog")
		}
	}
	if cfg.Synth.Force || !catalogRepo.HasRestaurants() {
		restSynth := service.NewRestaurantSynthesizer(
			catalogRepo, categoryRepo, textGenClient,
			cfg.Synth.RestaurantCount, cfg.Synth.LLMBatchSize,
		)
		if err := restSynth.Generate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to generate restaurant catalog")
		}
	}

	// === ПАЙПЛАЙН ===
	generator := service.NewReviewGenerator(textGenClient, contentCache)
	pipeline := service.NewPipelineService(cfg, catalogRepo, chunkRepo, generator, publisher)

	// Мониторинг прогона: /health, /progress, /metrics
	var server *http.Server
	if cfg.Monitor.Enabled {
		monitorHandler := handler.NewMonitorHandler(pipeline)
		router := handler.SetupRoutes(monitorHandler)

		server = &http.Server{
			Addr:         ":" + cfg.Monitor.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logger.Info().Str("address", server.Addr).Msg("Starting monitor server")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("Failed to start monitor server")
			}
		}()
	}

	summary, err := pipeline.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Pipeline run failed")
	}

	logger.Info().
		Str("run_id", summary.RunID).
		Int("slots", summary.SlotsTotal).
		Int64("rows_written", summary.RowsWritten).
		Int64("chunks_written", summary.Chunks).
		Bool("llm_used", summary.LLMUsed).
		Int64("llm_failures", summary.LLMFailures).
		Float64("duration_sec", summary.DurationSec).
		Msg("Dataset generation completed")

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Monitor server forced to shutdown")
		}
	}

	logger.Info().Msg("Datagen Service stopped gracefully")
}

// connectRedis устанавливает соединение с Redis
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Проверяем соединение с retry logic
	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}

// connectPostgres устанавливает соединение с PostgreSQL через pgxpool
func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(ctx, url)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				return pool, nil
			} else {
				err = pingErr
				pool.Close()
			}
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to PostgreSQL, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
