package service

import (
	"context"
	"fmt"

	"matjip/loader-service/internal/app/loader/entity"
	"matjip/loader-service/internal/app/loader/repository"
	"matjip/pkg/logger"
	"matjip/pkg/metrics"
)

// LoadService - оркестратор загрузки чанков в PostgreSQL.
// Порядок фиксирован: (опционально) TRUNCATE, затем все review_*.json
// по возрастанию суффикса, затем все review_photo_*.json, затем агрегаты.
type LoadService struct {
	files    repository.ChunkFileRepository
	db       repository.ReviewLoadRepository
	truncate bool
	rebuild  bool
}

// NewLoadService создает новый сервис загрузки
func NewLoadService(files repository.ChunkFileRepository, db repository.ReviewLoadRepository, truncate, rebuild bool) *LoadService {
	return &LoadService{
		files:    files,
		db:       db,
		truncate: truncate,
		rebuild:  rebuild,
	}
}

// Run выполняет полную загрузку датасета
func (s *LoadService) Run(ctx context.Context) (*entity.LoadSummary, error) {
	reviewFiles, err := s.files.ListReviewFiles()
	if err != nil {
		return nil, err
	}
	if len(reviewFiles) == 0 {
		return nil, fmt.Errorf("no review chunk files found")
	}

	photoFiles, err := s.files.ListPhotoFiles()
	if err != nil {
		return nil, err
	}

	if s.truncate {
		if err := s.db.TruncateReviewTables(ctx); err != nil {
			return nil, err
		}
		logger.Info().Msg("Review tables truncated")
	}

	summary := &entity.LoadSummary{
		ReviewFiles: len(reviewFiles),
		PhotoFiles:  len(photoFiles),
	}

	// Сначала все отзывы: фото ссылаются на review_id
	for _, name := range reviewFiles {
		reviews, err := s.files.ReadReviews(name)
		if err != nil {
			return nil, err
		}
		n, err := s.db.InsertReviews(ctx, reviews)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		summary.ReviewsInserted += n
		metrics.LoaderFilesLoaded.WithLabelValues("review").Inc()
		logger.Info().Str("file", name).Int64("inserted", n).Msg("Review chunk loaded")
	}

	for _, name := range photoFiles {
		photos, err := s.files.ReadPhotos(name)
		if err != nil {
			return nil, err
		}
		n, err := s.db.InsertReviewPhotos(ctx, photos)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", name, err)
		}
		summary.PhotosInserted += n
		metrics.LoaderFilesLoaded.WithLabelValues("review_photo").Inc()
		logger.Info().Str("file", name).Int64("inserted", n).Msg("Review photo chunk loaded")
	}

	if s.rebuild {
		if err := s.db.RebuildRestaurantStats(ctx); err != nil {
			return nil, err
		}
		summary.StatsRebuilt = true
		logger.Info().Msg("Restaurant review stats rebuilt")
	}

	return summary, nil
}
