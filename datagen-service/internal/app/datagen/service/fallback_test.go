package service

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// ===================== FallbackReview Tests =====================

func TestFallbackReview_RatingBounds(t *testing.T) {
	// Arrange
	rng := rand.New(rand.NewSource(1))

	// Act / Assert: все три ветки тональности дают рейтинг в [2.0, 5.0]
	for i := 0; i < 500; i++ {
		_, rating := FallbackReview(rng, "정담식당", "한식 전문점")
		assert.GreaterOrEqual(t, rating, 2.0)
		assert.LessOrEqual(t, rating, 5.0)
	}
}

func TestFallbackReview_RatingOneDecimal(t *testing.T) {
	// Arrange
	rng := rand.New(rand.NewSource(2))

	// Act / Assert
	for i := 0; i < 200; i++ {
		_, rating := FallbackReview(rng, "온기키친", "마포구 양식 전문점")
		scaled := rating * 10
		assert.InDelta(t, math.Round(scaled), scaled, 1e-9, "rating %v has more than one decimal", rating)
	}
}

func TestFallbackReview_TextLimit(t *testing.T) {
	// Длинное описание не раздувает текст сверх лимита
	// Arrange
	rng := rand.New(rand.NewSource(3))
	longDesc := strings.Repeat("아주 맛있는 ", 100)

	// Act
	text, _ := FallbackReview(rng, "풍미당", longDesc)

	// Assert
	assert.LessOrEqual(t, utf8.RuneCountInString(text), maxReviewTextRunes)
}

func TestFallbackReview_ContainsRestaurantName(t *testing.T) {
	// Arrange
	rng := rand.New(rand.NewSource(4))

	// Act
	text, _ := FallbackReview(rng, "미소포차", "용산구 주점")

	// Assert
	assert.Contains(t, text, "미소포차")
}

func TestFallbackReview_Deterministic(t *testing.T) {
	// Act
	text1, rating1 := FallbackReview(rand.New(rand.NewSource(777)), "한숲식당", "설명")
	text2, rating2 := FallbackReview(rand.New(rand.NewSource(777)), "한숲식당", "설명")

	// Assert
	assert.Equal(t, text1, text2)
	assert.Equal(t, rating1, rating2)
}

// ===================== Rating Helpers Tests =====================

func TestClampRating(t *testing.T) {
	assert.Equal(t, 5.0, clampRating(6.7))
	assert.Equal(t, 0.0, clampRating(-1.2))
	assert.Equal(t, 3.5, clampRating(3.5))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.3, roundRating(4.26))
	assert.Equal(t, 4.2, roundRating(4.24))
	assert.Equal(t, 5.0, roundRating(4.99))
}

func TestTruncateRunes_KoreanText(t *testing.T) {
	// Обрезка по рунам не рвёт многобайтовые символы
	s := "가나다라마"
	assert.Equal(t, "가나다", truncateRunes(s, 3))
	assert.Equal(t, s, truncateRunes(s, 10))
}
