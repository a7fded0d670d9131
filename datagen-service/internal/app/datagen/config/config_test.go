package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===================== Load Tests =====================

func TestLoad_Defaults(t *testing.T) {
	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "./data", cfg.Data.Dir)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.Dates.Start)
	assert.Equal(t, time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), cfg.Dates.End)

	assert.Equal(t, 100, cfg.Cohorts.VIPCount)
	assert.Equal(t, 1000, cfg.Cohorts.LoyalCount)
	assert.Equal(t, 3000, cfg.Cohorts.RegularCount)
	assert.Equal(t, ReviewRange{Min: 80, Max: 120}, cfg.Cohorts.VIPReviews)
	assert.Equal(t, ReviewRange{Min: 10, Max: 30}, cfg.Cohorts.LoyalReviews)
	assert.Equal(t, ReviewRange{Min: 1, Max: 5}, cfg.Cohorts.RegularReviews)

	assert.Equal(t, 20, cfg.Batch.TargetSlots)
	assert.Equal(t, 24, cfg.Batch.MaxSlots)
	assert.Equal(t, 1000, cfg.Stream.ChunkSize)
	assert.Equal(t, 0, cfg.Stream.PhotoMin)
	assert.Equal(t, 3, cfg.Stream.PhotoMax)

	assert.Equal(t, 20, cfg.Pipeline.Concurrency)
	assert.Equal(t, int64(777), cfg.Pipeline.Seed)

	assert.False(t, cfg.LLM.Enabled())
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.Database.Enabled())
	assert.True(t, cfg.Monitor.Enabled)
	assert.Equal(t, "8086", cfg.Monitor.Port)

	assert.Equal(t, 5000, cfg.Synth.UserCount)
	assert.Equal(t, 2000, cfg.Synth.RestaurantCount)
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Arrange
	t.Setenv("DATA_DIR", "/tmp/matjip")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("VIP_REVIEWS_RANGE", "5, 9")
	t.Setenv("KAFKA_BROKERS", "kafka1:9092, kafka2:9092")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("LLM_API_URL", "https://api.example.com/v1/responses")
	t.Setenv("LLM_API_KEY", "key")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/tmp/matjip", cfg.Data.Dir)
	assert.Equal(t, int64(42), cfg.Pipeline.Seed)
	assert.Equal(t, ReviewRange{Min: 5, Max: 9}, cfg.Cohorts.VIPReviews)
	assert.Equal(t, []string{"kafka1:9092", "kafka2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "redis:6379", cfg.Redis.Address())
	assert.True(t, cfg.LLM.Enabled())
}

func TestLoad_MalformedRangeFallsBackToDefault(t *testing.T) {
	// Arrange
	t.Setenv("LOYAL_REVIEWS_RANGE", "ten,thirty")

	// Act
	cfg, err := Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, ReviewRange{Min: 10, Max: 30}, cfg.Cohorts.LoyalReviews)
}

// ===================== Validate Tests =====================

func TestLoad_EndBeforeStartFails(t *testing.T) {
	// Arrange
	t.Setenv("DATE_START", "2025-01-01")
	t.Setenv("DATE_END", "2023-01-01")

	// Act
	_, err := Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATE_END")
}

func TestLoad_InvalidDateFails(t *testing.T) {
	t.Setenv("DATE_START", "01.01.2023")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_RangeMaxBelowMinFails(t *testing.T) {
	// Arrange
	t.Setenv("REGULAR_REVIEWS_RANGE", "5,1")

	// Act
	_, err := Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REGULAR_REVIEWS_RANGE")
}

func TestLoad_MaxSlotsBelowTargetFails(t *testing.T) {
	// Arrange
	t.Setenv("TARGET_SLOTS_PER_PROMPT", "30")
	t.Setenv("MAX_SLOTS_PER_PROMPT", "24")

	// Act
	_, err := Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_SLOTS_PER_PROMPT")
}

func TestLoad_PhotoMaxBelowMinFails(t *testing.T) {
	t.Setenv("REVIEW_PHOTO_MIN", "3")
	t.Setenv("REVIEW_PHOTO_MAX", "1")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_InvalidGeneratedAtFails(t *testing.T) {
	// Arrange
	t.Setenv("GENERATED_AT", "2024-01-01T12:00:00Z")

	// Act
	_, err := Load()

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GENERATED_AT")
}

func TestLoad_ZeroConcurrencyFails(t *testing.T) {
	t.Setenv("CONCURRENT_PROMPTS", "0")

	_, err := Load()

	assert.Error(t, err)
}

// ===================== Helpers Tests =====================

func TestDateRange_TotalDays(t *testing.T) {
	// Arrange
	r := DateRangeConfig{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}

	// Assert
	assert.Equal(t, 10, r.TotalDays())
}
