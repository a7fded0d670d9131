package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"matjip/datagen-service/internal/app/datagen/entity"
)

const (
	restaurantFile      = "restaurant.json"
	restaurantLocFile   = "restaurant_location.json"
	restaurantImageFile = "restaurant_image.json"
	restaurantCatFile   = "restaurant_category.json"
	userAccountFile     = "user_account.json"
	userProfileFile     = "user_profile.json"
)

// catalogRepository реализует CatalogRepository поверх JSON файлов в dataDir
type catalogRepository struct {
	dataDir string
}

// NewCatalogRepository создает репозиторий каталогов; dataDir создается при необходимости
func NewCatalogRepository(dataDir string) (CatalogRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}
	return &catalogRepository{dataDir: dataDir}, nil
}

// LoadRestaurants читает restaurant.json
func (r *catalogRepository) LoadRestaurants() ([]entity.Restaurant, error) {
	var restaurants []entity.Restaurant
	if err := r.readArray(restaurantFile, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// LoadUserAccounts читает user_account.json
func (r *catalogRepository) LoadUserAccounts() ([]entity.UserAccount, error) {
	var users []entity.UserAccount
	if err := r.readArray(userAccountFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// HasRestaurants проверяет наличие restaurant.json
func (r *catalogRepository) HasRestaurants() bool {
	return r.fileExists(restaurantFile)
}

// HasUserAccounts проверяет наличие user_account.json
func (r *catalogRepository) HasUserAccounts() bool {
	return r.fileExists(userAccountFile)
}

// SaveUserAccounts записывает user_account.json
func (r *catalogRepository) SaveUserAccounts(users []entity.UserAccount) error {
	return r.writeArray(userAccountFile, users)
}

// SaveUserProfiles записывает user_profile.json
func (r *catalogRepository) SaveUserProfiles(profiles []entity.UserProfile) error {
	return r.writeArray(userProfileFile, profiles)
}

// SaveRestaurants записывает restaurant.json
func (r *catalogRepository) SaveRestaurants(restaurants []entity.Restaurant) error {
	return r.writeArray(restaurantFile, restaurants)
}

// SaveRestaurantLocations записывает restaurant_location.json
func (r *catalogRepository) SaveRestaurantLocations(locations []entity.RestaurantLocation) error {
	return r.writeArray(restaurantLocFile, locations)
}

// SaveRestaurantImages записывает restaurant_image.json
func (r *catalogRepository) SaveRestaurantImages(images []entity.RestaurantImage) error {
	return r.writeArray(restaurantImageFile, images)
}

// SaveRestaurantCategoryLinks записывает restaurant_category.json
func (r *catalogRepository) SaveRestaurantCategoryLinks(links []entity.RestaurantCategoryLink) error {
	return r.writeArray(restaurantCatFile, links)
}

func (r *catalogRepository) fileExists(name string) bool {
	info, err := os.Stat(filepath.Join(r.dataDir, name))
	return err == nil && !info.IsDir()
}

// readArray читает JSON массив с проверкой формата:
// не-массив это фатальная ошибка конфигурации входных данных
func (r *catalogRepository) readArray(name string, out interface{}) error {
	path := filepath.Join(r.dataDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s is not a valid JSON array: %w", path, err)
	}

	return nil
}

// writeArray пишет JSON массив (UTF-8, с отступами, как исходные генераторы)
func (r *catalogRepository) writeArray(name string, v interface{}) error {
	path := filepath.Join(r.dataDir, name)

	data, err := marshalPrettyJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// marshalPrettyJSON сериализует с отступами и без экранирования HTML,
// чтобы корейский текст и URL оставались читаемыми в файлах
func marshalPrettyJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
