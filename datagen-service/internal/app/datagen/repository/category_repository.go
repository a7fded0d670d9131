package repository

import (
	"context"
	"fmt"

	"matjip/datagen-service/internal/app/datagen/entity"

	"github.com/jackc/pgx/v5/pgxpool"
)

// categoryRepository читает категории ресторанов из PostgreSQL.
// Используется только синтезом каталога; при пустом DATABASE_URL
// синтезатор работает со встроенным списком.
type categoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository создает новый репозиторий категорий
func NewCategoryRepository(db *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{db: db}
}

// ListActive возвращает неудалённые категории в порядке category_id
func (r *categoryRepository) ListActive(ctx context.Context) ([]entity.Category, error) {
	query := `
		SELECT category_id, name
		FROM category
		WHERE is_deleted = FALSE
		ORDER BY category_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.CategoryID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}
