package repository

import (
	"context"

	"matjip/datagen-service/internal/app/datagen/entity"
)

// CatalogRepository - доступ к входным/выходным JSON каталогам в DATA_DIR.
// Входные каталоги (рестораны, аккаунты) конечны и неизменяемы для пайплайна.
type CatalogRepository interface {
	// LoadRestaurants читает restaurant.json
	LoadRestaurants() ([]entity.Restaurant, error)

	// LoadUserAccounts читает user_account.json
	LoadUserAccounts() ([]entity.UserAccount, error)

	// HasRestaurants проверяет наличие restaurant.json
	HasRestaurants() bool

	// HasUserAccounts проверяет наличие user_account.json
	HasUserAccounts() bool

	// SaveUserAccounts записывает user_account.json
	SaveUserAccounts(users []entity.UserAccount) error

	// SaveUserProfiles записывает user_profile.json
	SaveUserProfiles(profiles []entity.UserProfile) error

	// SaveRestaurants записывает restaurant.json
	SaveRestaurants(restaurants []entity.Restaurant) error

	// SaveRestaurantLocations записывает restaurant_location.json
	SaveRestaurantLocations(locations []entity.RestaurantLocation) error

	// SaveRestaurantImages записывает restaurant_image.json
	SaveRestaurantImages(images []entity.RestaurantImage) error

	// SaveRestaurantCategoryLinks записывает restaurant_category.json
	SaveRestaurantCategoryLinks(links []entity.RestaurantCategoryLink) error
}

// ChunkRepository - запись готовых чанков отзывов/фото.
// Имя файла выводится из последнего review_id чанка, поэтому файлы
// самоописуемы и не пересекаются между собой.
type ChunkRepository interface {
	// WriteReviewChunk записывает review_<lastID>.json и возвращает имя файла
	WriteReviewChunk(rows []entity.ReviewRow) (string, error)

	// WriteReviewPhotoChunk записывает review_photo_<lastID>.json и возвращает имя файла
	WriteReviewPhotoChunk(lastReviewID int64, photos []entity.ReviewPhotoRow) (string, error)
}

// ContentCacheRepository - опциональный Redis кэш сгенерированного контента.
// Ключ - хэш содержимого ресторана, поэтому кэш переживает перегенерацию слотов.
type ContentCacheRepository interface {
	// GetMultiple получает закэшированный контент для набора ключей;
	// отсутствующие ключи в результате не представлены
	GetMultiple(ctx context.Context, keys []string) (map[string]entity.CachedReview, error)

	// SetMultiple сохраняет сгенерированный контент батчем с TTL
	SetMultiple(ctx context.Context, entries map[string]entity.CachedReview) error
}

// CategoryRepository - источник категорий ресторанов для синтеза каталога
type CategoryRepository interface {
	// ListActive возвращает неудалённые категории в порядке category_id
	ListActive(ctx context.Context) ([]entity.Category, error)
}
