package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChunkFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// ===================== ChunkFileRepository Tests =====================

func TestListReviewFiles_NumericOrder(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	writeChunkFile(t, dataDir, "review_2000.json", "[]")
	writeChunkFile(t, dataDir, "review_999.json", "[]")
	writeChunkFile(t, dataDir, "review_10000.json", "[]")

	repo := NewChunkFileRepository(dataDir)

	// Act
	files, err := repo.ListReviewFiles()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"review_999.json", "review_2000.json", "review_10000.json"}, files)
}

func TestListReviewFiles_ExcludesPhotoFiles(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	writeChunkFile(t, dataDir, "review_1000.json", "[]")
	writeChunkFile(t, dataDir, "review_photo_1000.json", "[]")
	writeChunkFile(t, dataDir, "restaurant.json", "[]")

	repo := NewChunkFileRepository(dataDir)

	// Act
	reviewFiles, err := repo.ListReviewFiles()
	require.NoError(t, err)
	photoFiles, err := repo.ListPhotoFiles()
	require.NoError(t, err)

	// Assert
	assert.Equal(t, []string{"review_1000.json"}, reviewFiles)
	assert.Equal(t, []string{"review_photo_1000.json"}, photoFiles)
}

func TestListReviewFiles_MissingDirFails(t *testing.T) {
	// Arrange
	repo := NewChunkFileRepository(filepath.Join(t.TempDir(), "nope"))

	// Act
	_, err := repo.ListReviewFiles()

	// Assert
	assert.Error(t, err)
}

func TestReadReviews_ParsesChunk(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	writeChunkFile(t, dataDir, "review_2.json", `[
  {"review_id": 1, "user_id": 100, "restaurant_id": 10, "rating": 4.5, "review_text": "맛있어요", "visited_at": "2023-05-01", "is_deleted": false},
  {"review_id": 2, "user_id": 101, "restaurant_id": 11, "rating": 3.0, "review_text": "보통", "visited_at": "2023-06-01", "is_deleted": false}
]`)

	repo := NewChunkFileRepository(dataDir)

	// Act
	reviews, err := repo.ReadReviews("review_2.json")

	// Assert
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, int64(1), reviews[0].ReviewID)
	assert.Equal(t, "맛있어요", reviews[0].ReviewText)
	assert.Equal(t, 4.5, reviews[0].Rating)
	assert.Equal(t, "2023-06-01", reviews[1].VisitedAt)
}

func TestReadPhotos_NullPhotoID(t *testing.T) {
	// photo_id null в чанке: идентификатор присвоит SERIAL при вставке
	// Arrange
	dataDir := t.TempDir()
	writeChunkFile(t, dataDir, "review_photo_1.json", `[
  {"photo_id": null, "review_id": 1, "image_url": "/reviews/1/1", "is_deleted": false}
]`)

	repo := NewChunkFileRepository(dataDir)

	// Act
	photos, err := repo.ReadPhotos("review_photo_1.json")

	// Assert
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Nil(t, photos[0].PhotoID)
	assert.Equal(t, int64(1), photos[0].ReviewID)
	assert.Equal(t, "/reviews/1/1", photos[0].ImageURL)
}

func TestReadReviews_InvalidJSONFails(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	writeChunkFile(t, dataDir, "review_1.json", "{broken")

	repo := NewChunkFileRepository(dataDir)

	// Act
	_, err := repo.ReadReviews("review_1.json")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid JSON array")
}

func TestReadReviews_MissingFileFails(t *testing.T) {
	// Arrange
	repo := NewChunkFileRepository(t.TempDir())

	// Act
	_, err := repo.ReadReviews("review_404.json")

	// Assert
	assert.Error(t, err)
}
