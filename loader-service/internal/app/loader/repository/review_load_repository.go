package repository

import (
	"context"
	"fmt"

	"matjip/loader-service/internal/app/loader/entity"
	"matjip/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const serviceName = "loader-service"

// reviewLoadRepository реализует ReviewLoadRepository для PostgreSQL через GORM
type reviewLoadRepository struct {
	db       *gorm.DB
	pageSize int
}

// NewReviewLoadRepository создает новый репозиторий загрузки отзывов
func NewReviewLoadRepository(db *gorm.DB, pageSize int) ReviewLoadRepository {
	return &reviewLoadRepository{db: db, pageSize: pageSize}
}

// InsertReviews вставляет отзывы батчами.
// Повторный прогон по тем же файлам безопасен: конфликт review_id пропускается.
func (r *reviewLoadRepository) InsertReviews(ctx context.Context, reviews []entity.Review) (int64, error) {
	if len(reviews) == 0 {
		return 0, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "review")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "review_id"}},
			DoNothing: true,
		}).
		CreateInBatches(reviews, r.pageSize)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return 0, fmt.Errorf("failed to insert reviews: %w", result.Error)
	}

	metrics.LoaderRowsInserted.WithLabelValues("review").Add(float64(result.RowsAffected))

	return result.RowsAffected, nil
}

// InsertReviewPhotos вставляет фото батчами; photo_id присваивает SERIAL
func (r *reviewLoadRepository) InsertReviewPhotos(ctx context.Context, photos []entity.ReviewPhoto) (int64, error) {
	if len(photos) == 0 {
		return 0, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "review_photo")
	defer timer.ObserveDuration()

	result := r.db.WithContext(ctx).CreateInBatches(photos, r.pageSize)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return 0, fmt.Errorf("failed to insert review photos: %w", result.Error)
	}

	metrics.LoaderRowsInserted.WithLabelValues("review_photo").Add(float64(result.RowsAffected))

	return result.RowsAffected, nil
}

// TruncateReviewTables очищает таблицы в порядке зависимостей: сначала фото
func (r *reviewLoadRepository) TruncateReviewTables(ctx context.Context) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpTruncate, "review")
	defer timer.ObserveDuration()

	for _, table := range []string{"review_photo", "review"} {
		if err := r.db.WithContext(ctx).
			Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpTruncate)
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}

	return nil
}

// RebuildRestaurantStats пересчитывает агрегаты по неудалённым отзывам и упсертит их
func (r *reviewLoadRepository) RebuildRestaurantStats(ctx context.Context) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "restaurant_review_stats")
	defer timer.ObserveDuration()

	query := `
		WITH agg AS (
			SELECT
				restaurant_id,
				COUNT(*)::int AS review_count,
				ROUND(AVG(rating)::numeric, 1) AS avg_rating
			FROM review
			WHERE is_deleted = FALSE
			GROUP BY restaurant_id
		)
		INSERT INTO restaurant_review_stats (restaurant_id, review_count, avg_rating, updated_at)
		SELECT a.restaurant_id, a.review_count, COALESCE(a.avg_rating, 0.0), NOW()
		FROM agg a
		ON CONFLICT (restaurant_id) DO UPDATE
			SET review_count = EXCLUDED.review_count,
				avg_rating   = EXCLUDED.avg_rating,
				updated_at   = NOW()
	`

	if err := r.db.WithContext(ctx).Exec(query).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to rebuild restaurant review stats: %w", err)
	}

	return nil
}
