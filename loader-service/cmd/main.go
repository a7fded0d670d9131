package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"matjip/loader-service/internal/app/loader/config"
	"matjip/loader-service/internal/app/loader/repository"
	"matjip/loader-service/internal/app/loader/service"
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
	logger.Init("loader-service", logLevel)

	// Контекст загрузки отменяется по SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := connectDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	logger.Info().Msg("Connected to PostgreSQL")

	fileRepo := repository.NewChunkFileRepository(cfg.DataDir)
	loadRepo := repository.NewReviewLoadRepository(db, cfg.PageSize)
	loadSvc := service.NewLoadService(fileRepo, loadRepo, cfg.Truncate, cfg.RebuildStats)

	summary, err := loadSvc.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Load failed")
	}

	logger.Info().
		Int("review_files", summary.ReviewFiles).
		Int("photo_files", summary.PhotoFiles).
		Int64("reviews_inserted", summary.ReviewsInserted).
		Int64("photos_inserted", summary.PhotosInserted).
		Bool("stats_rebuilt", summary.StatsRebuilt).
		Str("data_dir", cfg.DataDir).
		Msg("Dataset load completed")
}

// connectDB устанавливает соединение с PostgreSQL используя GORM
func connectDB(url string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	// Retry logic для устойчивости при запуске в Docker
	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(url), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else {
				if pingErr := sqlDB.Ping(); pingErr != nil {
					err = pingErr
				} else {
					sqlDB.SetMaxOpenConns(10)
					sqlDB.SetMaxIdleConns(5)
					sqlDB.SetConnMaxLifetime(5 * time.Minute)
					return db, nil
				}
			}
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
