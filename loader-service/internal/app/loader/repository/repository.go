package repository

import (
	"context"

	"matjip/loader-service/internal/app/loader/entity"
)

// ReviewLoadRepository - массовая запись отзывов/фото в PostgreSQL
type ReviewLoadRepository interface {
	// InsertReviews вставляет отзывы батчами; дубликаты review_id пропускаются
	InsertReviews(ctx context.Context, reviews []entity.Review) (int64, error)

	// InsertReviewPhotos вставляет фото батчами; photo_id присваивает SERIAL
	InsertReviewPhotos(ctx context.Context, photos []entity.ReviewPhoto) (int64, error)

	// TruncateReviewTables очищает review_photo и review (в порядке зависимостей)
	TruncateReviewTables(ctx context.Context) error

	// RebuildRestaurantStats пересчитывает restaurant_review_stats по неудалённым отзывам
	RebuildRestaurantStats(ctx context.Context) error
}

// ChunkFileRepository - чтение файлов-чанков из DATA_DIR
type ChunkFileRepository interface {
	// ListReviewFiles возвращает review_*.json в порядке числового суффикса
	ListReviewFiles() ([]string, error)

	// ListPhotoFiles возвращает review_photo_*.json в порядке числового суффикса
	ListPhotoFiles() ([]string, error)

	// ReadReviews читает один файл отзывов
	ReadReviews(name string) ([]entity.Review, error)

	// ReadPhotos читает один файл фото
	ReadPhotos(name string) ([]entity.ReviewPhoto, error)
}
