package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipelineConfig(dataDir string) *config.Config {
	return &config.Config{
		Data:  config.DataConfig{Dir: dataDir},
		Dates: testDateRange(),
		Cohorts: config.CohortConfig{
			VIPCount:       1,
			LoyalCount:     2,
			RegularCount:   3,
			VIPReviews:     config.ReviewRange{Min: 4, Max: 6},
			LoyalReviews:   config.ReviewRange{Min: 2, Max: 3},
			RegularReviews: config.ReviewRange{Min: 1, Max: 2},
		},
		Batch:  config.BatchConfig{TargetSlots: 5, MaxSlots: 6},
		Stream: config.StreamConfig{ChunkSize: 4, PhotoMin: 0, PhotoMax: 2},
		Pipeline: config.PipelineConfig{
			Concurrency: 3,
			Seed:        777,
			CooldownMS:  0,
			GeneratedAt: "2024-01-01 12:00:00",
		},
	}
}

func writeTestCatalogs(t *testing.T, dataDir string) {
	t.Helper()

	catalogRepo, err := repository.NewCatalogRepository(dataDir)
	require.NoError(t, err)

	restaurants := make([]entity.Restaurant, 12)
	for i := range restaurants {
		restaurants[i] = entity.Restaurant{
			RestaurantID: int64(i + 1),
			Name:         fmt.Sprintf("식당%d", i+1),
			Description:  "서울 맛집",
		}
	}
	require.NoError(t, catalogRepo.SaveRestaurants(restaurants))

	users := make([]entity.UserAccount, 8)
	for i := range users {
		users[i] = entity.UserAccount{
			UserID:   int64(i + 1),
			Username: fmt.Sprintf("user%d", i+1),
		}
	}
	require.NoError(t, catalogRepo.SaveUserAccounts(users))
}

func runTestPipeline(t *testing.T, dataDir string) (*PipelineService, *entity.RunSummary) {
	t.Helper()

	writeTestCatalogs(t, dataDir)

	catalogRepo, err := repository.NewCatalogRepository(dataDir)
	require.NoError(t, err)
	chunkRepo, err := repository.NewChunkRepository(dataDir)
	require.NoError(t, err)

	pipeline := NewPipelineService(
		testPipelineConfig(dataDir),
		catalogRepo,
		chunkRepo,
		NewReviewGenerator(nil, nil),
		nil,
	)

	summary, err := pipeline.Run(context.Background())
	require.NoError(t, err)
	return pipeline, summary
}

// ===================== PipelineService Tests =====================

func TestPipelineRun_ProducesPairedChunks(t *testing.T) {
	// Arrange / Act
	dataDir := t.TempDir()
	_, summary := runTestPipeline(t, dataDir)

	// Assert
	assert.Greater(t, summary.SlotsTotal, 0)
	assert.Equal(t, int64(summary.SlotsTotal), summary.RowsWritten)
	assert.False(t, summary.LLMUsed)

	reviewFiles, err := repository.ListChunkFiles(dataDir, "review")
	require.NoError(t, err)
	photoFiles, err := repository.ListChunkFiles(dataDir, "review_photo")
	require.NoError(t, err)

	require.NotEmpty(t, reviewFiles)
	assert.Equal(t, int(summary.Chunks), len(reviewFiles))
	assert.Equal(t, len(reviewFiles), len(photoFiles))
}

func TestPipelineRun_DeterministicAcrossRuns(t *testing.T) {
	// Одинаковый сид и GENERATED_AT дают побайтово одинаковые чанки
	// Arrange / Act
	dirA := t.TempDir()
	dirB := t.TempDir()
	runTestPipeline(t, dirA)
	runTestPipeline(t, dirB)

	// Assert
	for _, prefix := range []string{"review", "review_photo"} {
		filesA, err := repository.ListChunkFiles(dirA, prefix)
		require.NoError(t, err)
		filesB, err := repository.ListChunkFiles(dirB, prefix)
		require.NoError(t, err)
		require.Equal(t, filesA, filesB)

		for _, name := range filesA {
			dataA, err := os.ReadFile(filepath.Join(dirA, name))
			require.NoError(t, err)
			dataB, err := os.ReadFile(filepath.Join(dirB, name))
			require.NoError(t, err)
			assert.Equal(t, dataA, dataB, "chunk %s differs between runs", name)
		}
	}
}

func TestPipelineRun_NotEnoughUsersFails(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	catalogRepo, err := repository.NewCatalogRepository(dataDir)
	require.NoError(t, err)
	require.NoError(t, catalogRepo.SaveRestaurants([]entity.Restaurant{{RestaurantID: 1, Name: "식당"}}))
	require.NoError(t, catalogRepo.SaveUserAccounts([]entity.UserAccount{{UserID: 1}}))

	chunkRepo, err := repository.NewChunkRepository(dataDir)
	require.NoError(t, err)

	pipeline := NewPipelineService(
		testPipelineConfig(dataDir), catalogRepo, chunkRepo, NewReviewGenerator(nil, nil), nil,
	)

	// Act
	summary, err := pipeline.Run(context.Background())

	// Assert
	assert.Error(t, err)
	assert.Nil(t, summary)
	assert.Contains(t, err.Error(), "not enough users")
}

func TestPipelineRun_MissingCatalogFails(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	catalogRepo, err := repository.NewCatalogRepository(dataDir)
	require.NoError(t, err)
	chunkRepo, err := repository.NewChunkRepository(dataDir)
	require.NoError(t, err)

	pipeline := NewPipelineService(
		testPipelineConfig(dataDir), catalogRepo, chunkRepo, NewReviewGenerator(nil, nil), nil,
	)

	// Act
	_, err = pipeline.Run(context.Background())

	// Assert
	assert.Error(t, err)
}

func TestPipelineProgress_ReflectsFinishedRun(t *testing.T) {
	// Arrange / Act
	pipeline, summary := runTestPipeline(t, t.TempDir())
	progress := pipeline.Progress()

	// Assert
	assert.Equal(t, summary.RunID, progress.RunID)
	assert.False(t, progress.Running)
	assert.Equal(t, int64(summary.SlotsTotal), progress.SlotsTotal)
	assert.Equal(t, progress.BatchesTotal, progress.BatchesDone)
	assert.Equal(t, summary.RowsWritten, progress.RowsWritten)
	assert.Equal(t, summary.Chunks, progress.ChunksWritten)
}

func TestPipelineRun_CancelledContext(t *testing.T) {
	// Arrange
	dataDir := t.TempDir()
	writeTestCatalogs(t, dataDir)

	catalogRepo, err := repository.NewCatalogRepository(dataDir)
	require.NoError(t, err)
	chunkRepo, err := repository.NewChunkRepository(dataDir)
	require.NoError(t, err)

	pipeline := NewPipelineService(
		testPipelineConfig(dataDir), catalogRepo, chunkRepo, NewReviewGenerator(nil, nil), nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err = pipeline.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

// ===================== buildReviewRows Tests =====================

func TestBuildReviewRows_MapsBySlotID(t *testing.T) {
	// Arrange
	slots := []entity.Slot{
		{SlotID: 1, UserID: 10, RestaurantID: 100, VisitedAt: "2023-05-01"},
		{SlotID: 2, UserID: 11, RestaurantID: 101, VisitedAt: "2023-06-01"},
	}
	reviews := []entity.GeneratedReview{
		{SlotID: 2, ReviewText: "두번째", Rating: 3.5},
		{SlotID: 1, ReviewText: "첫번째", Rating: 4.5},
	}

	// Act
	rows := buildReviewRows(slots, reviews, "2024-01-01 12:00:00")

	// Assert: порядок строк следует порядку слотов, не порядку результатов
	require.Len(t, rows, 2)
	assert.Equal(t, "첫번째", rows[0].ReviewText)
	assert.Equal(t, int64(10), rows[0].UserID)
	assert.Equal(t, "2023-05-01", rows[0].VisitedAt)
	assert.Equal(t, "두번째", rows[1].ReviewText)
	assert.Equal(t, "2024-01-01 12:00:00", rows[0].CreatedAt)
	assert.Equal(t, "2024-01-01 12:00:00", rows[1].UpdatedAt)
}
