package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSlots() []entity.Slot {
	return []entity.Slot{
		{SlotID: 1, UserID: 100, RestaurantID: 10, RestaurantName: "정담식당", RestaurantDescription: "한식 전문점", VisitedAt: "2023-05-01"},
		{SlotID: 2, UserID: 101, RestaurantID: 11, RestaurantName: "온기키친", RestaurantDescription: "양식", VisitedAt: "2023-06-01"},
		{SlotID: 3, UserID: 102, RestaurantID: 12, RestaurantName: "소담분식", RestaurantDescription: "", VisitedAt: "2023-07-01"},
	}
}

// ===================== GenerateForSlots Tests =====================

func TestGenerateForSlots_ParsesValidResponse(t *testing.T) {
	// Arrange
	client := new(mocks.MockTextGenClient)
	generator := NewReviewGenerator(client, nil)

	raw := `{"slot_id": 1, "review_text": "맛있어요", "rating": 4.5}
{"slot_id": 2, "review_text": "괜찮았어요", "rating": 3.8}
{"slot_id": 3, "review_text": "별로였어요", "rating": 2.1}`
	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	assert.Equal(t, int64(1), result[0].SlotID)
	assert.Equal(t, "맛있어요", result[0].ReviewText)
	assert.Equal(t, 4.5, result[0].Rating)
	assert.Equal(t, "괜찮았어요", result[1].ReviewText)
	assert.Equal(t, "별로였어요", result[2].ReviewText)
}

func TestGenerateForSlots_SkipsGarbageLines(t *testing.T) {
	// Мусор между валидными JSON строками молча игнорируется
	// Arrange
	client := new(mocks.MockTextGenClient)
	generator := NewReviewGenerator(client, nil)

	raw := `Here are your reviews:
{"slot_id": 1, "review_text": "맛있어요", "rating": 4.5}
{not json at all
{"slot_id": 999}
{"slot_id": 2, "review_text": "괜찮았어요", "rating": 3.8}
done!`
	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots()[:2], rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 2)
	assert.Equal(t, "맛있어요", result[0].ReviewText)
	assert.Equal(t, "괜찮았어요", result[1].ReviewText)
}

func TestGenerateForSlots_ClampsAndRoundsRating(t *testing.T) {
	// Arrange
	client := new(mocks.MockTextGenClient)
	generator := NewReviewGenerator(client, nil)

	raw := `{"slot_id": 1, "review_text": "최고", "rating": 6.7}
{"slot_id": 2, "review_text": "최악", "rating": -2.0}
{"slot_id": 3, "review_text": "보통", "rating": 3.456}`
	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	assert.Equal(t, 5.0, result[0].Rating)
	assert.Equal(t, 0.0, result[1].Rating)
	assert.Equal(t, 3.5, result[2].Rating)
}

func TestGenerateForSlots_MissingSlotsFilledByFallback(t *testing.T) {
	// Сервис вернул контент не для всех слотов: недостающие добираются локально
	// Arrange
	client := new(mocks.MockTextGenClient)
	generator := NewReviewGenerator(client, nil)

	raw := `{"slot_id": 2, "review_text": "괜찮았어요", "rating": 3.8}`
	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	for i, slot := range testSlots() {
		assert.Equal(t, slot.SlotID, result[i].SlotID)
		assert.NotEmpty(t, result[i].ReviewText)
		assert.GreaterOrEqual(t, result[i].Rating, 0.0)
		assert.LessOrEqual(t, result[i].Rating, 5.0)
	}
	assert.Equal(t, "괜찮았어요", result[1].ReviewText)
}

func TestGenerateForSlots_ClientErrorFallsBackWholeBatch(t *testing.T) {
	// Arrange
	client := new(mocks.MockTextGenClient)
	generator := NewReviewGenerator(client, nil)

	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("service unavailable"))

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	for i, slot := range testSlots() {
		assert.Equal(t, slot.SlotID, result[i].SlotID)
		assert.NotEmpty(t, result[i].ReviewText)
	}
	assert.Equal(t, int64(1), generator.RemoteFailures())
}

func TestGenerateForSlots_NilClientUsesFallback(t *testing.T) {
	// Arrange
	generator := NewReviewGenerator(nil, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	for i, slot := range testSlots() {
		assert.Equal(t, slot.SlotID, result[i].SlotID)
		assert.Contains(t, result[i].ReviewText, slot.RestaurantName)
	}
}

func TestGenerateForSlots_EmptyBatch(t *testing.T) {
	generator := NewReviewGenerator(nil, nil)

	result := generator.GenerateForSlots(context.Background(), nil, rand.New(rand.NewSource(1)))

	assert.Empty(t, result)
}

func TestGenerateForSlots_CacheHitSkipsRemoteCall(t *testing.T) {
	// Все слоты закрыты кэшем: внешний сервис не вызывается
	// Arrange
	client := new(mocks.MockTextGenClient)
	cache := new(mocks.MockContentCacheRepository)
	generator := NewReviewGenerator(client, cache)

	slots := testSlots()
	cached := map[string]entity.CachedReview{}
	for _, s := range slots {
		cached[contentCacheKey(s)] = entity.CachedReview{ReviewText: "캐시된 리뷰", Rating: 4.0}
	}
	cache.On("GetMultiple", mock.Anything, mock.Anything).Return(cached, nil)

	// Act
	result := generator.GenerateForSlots(context.Background(), slots, rand.New(rand.NewSource(1)))

	// Assert
	require.Len(t, result, 3)
	for _, r := range result {
		assert.Equal(t, "캐시된 리뷰", r.ReviewText)
		assert.Equal(t, 4.0, r.Rating)
	}
	client.AssertNotCalled(t, "CreateCompletion")
}

func TestGenerateForSlots_StoresGeneratedContentInCache(t *testing.T) {
	// Arrange
	client := new(mocks.MockTextGenClient)
	cache := new(mocks.MockContentCacheRepository)
	generator := NewReviewGenerator(client, cache)

	cache.On("GetMultiple", mock.Anything, mock.Anything).Return(map[string]entity.CachedReview{}, nil)
	cache.On("SetMultiple", mock.Anything, mock.Anything).Return(nil)

	raw := `{"slot_id": 1, "review_text": "맛있어요", "rating": 4.5}
{"slot_id": 2, "review_text": "괜찮았어요", "rating": 3.8}
{"slot_id": 3, "review_text": "별로였어요", "rating": 2.1}`
	client.On("CreateCompletion", mock.Anything, mock.Anything, mock.Anything).Return(raw, nil)

	// Act
	generator.GenerateForSlots(context.Background(), testSlots(), rand.New(rand.NewSource(1)))

	// Assert
	cache.AssertCalled(t, "SetMultiple", mock.Anything, mock.Anything)
}

// ===================== parseReviewLines Tests =====================

func TestParseReviewLines_TruncatesLongText(t *testing.T) {
	// Arrange
	long := make([]rune, 0, 300)
	for i := 0; i < 300; i++ {
		long = append(long, '맛')
	}
	raw := `{"slot_id": 1, "review_text": "` + string(long) + `", "rating": 4.0}`

	// Act
	result := parseReviewLines(raw)

	// Assert
	require.Contains(t, result, int64(1))
	assert.Len(t, []rune(result[1].ReviewText), maxReviewTextRunes)
}

func TestParseReviewLines_EmptyInput(t *testing.T) {
	assert.Empty(t, parseReviewLines(""))
	assert.Empty(t, parseReviewLines("\n\n\n"))
}
