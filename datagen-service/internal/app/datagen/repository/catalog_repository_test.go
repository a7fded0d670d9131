package repository

import (
	"os"
	"path/filepath"
	"testing"

	"matjip/datagen-service/internal/app/datagen/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== CatalogRepository Tests =====================

func TestCatalogRepository_RestaurantsRoundtrip(t *testing.T) {
	// Arrange
	repo, err := NewCatalogRepository(t.TempDir())
	require.NoError(t, err)

	restaurants := []entity.Restaurant{
		{RestaurantID: 1, Name: "정담식당", Description: "한식 전문점", PhoneNumber: "02-123-4567"},
		{RestaurantID: 2, Name: "온기키친", Description: "양식"},
	}

	// Act
	require.NoError(t, repo.SaveRestaurants(restaurants))
	loaded, err := repo.LoadRestaurants()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, restaurants, loaded)
}

func TestCatalogRepository_UserAccountsRoundtrip(t *testing.T) {
	// Arrange
	repo, err := NewCatalogRepository(t.TempDir())
	require.NoError(t, err)

	users := []entity.UserAccount{
		{UserID: 1, Username: "hungrycat7", Email: "hungrycat7@gmail.com"},
		{UserID: 2, Username: "seoulfoodie", Email: "seoulfoodie@naver.com"},
	}

	// Act
	require.NoError(t, repo.SaveUserAccounts(users))
	loaded, err := repo.LoadUserAccounts()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, users, loaded)
}

func TestCatalogRepository_HasFlags(t *testing.T) {
	// Arrange
	repo, err := NewCatalogRepository(t.TempDir())
	require.NoError(t, err)

	// Assert: пустой каталог
	assert.False(t, repo.HasRestaurants())
	assert.False(t, repo.HasUserAccounts())

	// Act
	require.NoError(t, repo.SaveRestaurants([]entity.Restaurant{{RestaurantID: 1, Name: "식당"}}))
	require.NoError(t, repo.SaveUserAccounts([]entity.UserAccount{{UserID: 1}}))

	// Assert
	assert.True(t, repo.HasRestaurants())
	assert.True(t, repo.HasUserAccounts())
}

func TestCatalogRepository_LoadMissingFileFails(t *testing.T) {
	// Arrange
	repo, err := NewCatalogRepository(t.TempDir())
	require.NoError(t, err)

	// Act
	_, err = repo.LoadRestaurants()

	// Assert
	assert.Error(t, err)
}

func TestCatalogRepository_LoadInvalidJSONFails(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	repo, err := NewCatalogRepository(dataDir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "restaurant.json"), []byte("{not an array"), 0o644))

	// Act
	_, err = repo.LoadRestaurants()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid JSON array")
}

func TestCatalogRepository_WritesReadableKoreanText(t *testing.T) {
	// Корейский текст и URL не экранируются в файлах
	// Arrange
	dataDir := t.TempDir()
	repo, err := NewCatalogRepository(dataDir)
	require.NoError(t, err)

	// Act
	require.NoError(t, repo.SaveRestaurants([]entity.Restaurant{
		{RestaurantID: 1, Name: "정담식당", Description: "한식 & 분식"},
	}))

	// Assert
	data, err := os.ReadFile(filepath.Join(dataDir, "restaurant.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "정담식당")
	assert.Contains(t, string(data), "한식 & 분식")
	assert.NotContains(t, string(data), `\u`)
}
