package service

import (
	"fmt"
	"math"
	"math/rand"
)

// Максимальная длина текста отзыва в символах (не байтах: текст корейский)
const maxReviewTextRunes = 200

// Словари локального генератора отзывов
var (
	posAdjectives = []string{"깔끔하고", "신선하고", "풍미가 좋고", "친절하고", "분위기가 좋고", "재방문 의사 있고", "가격대도 괜찮고"}
	midAdjectives = []string{"무난하고", "평범하고", "아쉬운 점도 있지만", "분위기는 괜찮고"}
	negAdjectives = []string{"간이 세고", "기대보다 밍밍하고", "서비스가 아쉽고", "재료가 부족하고"}
)

// FallbackReview генерирует текст отзыва и рейтинг локально, без внешнего сервиса.
// Распределение тональности: 60% позитив (4.0-5.0), 30% нейтраль (3.0-4.0),
// 10% негатив (2.0-3.5). Рейтинг округляется до одного знака.
func FallbackReview(rng *rand.Rand, name, desc string) (string, float64) {
	descHead := truncateRunes(desc, 40)

	var text string
	var rating float64

	switch r := rng.Float64(); {
	case r < 0.6:
		adj := posAdjectives[rng.Intn(len(posAdjectives))]
		rating = roundRating(uniform(rng, 4.0, 5.0))
		text = fmt.Sprintf("%s 다녀왔어요. %s %s 전반적으로 만족스러웠습니다.", name, descHead, adj)
	case r < 0.9:
		adj := midAdjectives[rng.Intn(len(midAdjectives))]
		rating = roundRating(uniform(rng, 3.0, 4.0))
		text = fmt.Sprintf("%s 방문 후기. %s %s 가볍게 식사하기 좋아요.", name, descHead, adj)
	default:
		adj := negAdjectives[rng.Intn(len(negAdjectives))]
		rating = roundRating(uniform(rng, 2.0, 3.5))
		text = fmt.Sprintf("%s 이용해봤는데 %s 기대에는 조금 못 미쳤어요.", name, adj)
	}

	return truncateRunes(text, maxReviewTextRunes), rating
}

// clampRating приводит рейтинг к допустимому диапазону [0.0, 5.0]
func clampRating(r float64) float64 {
	return math.Max(0.0, math.Min(5.0, r))
}

// roundRating округляет рейтинг до одного знака после запятой
func roundRating(r float64) float64 {
	return math.Round(r*10) / 10
}

// uniform возвращает равномерно распределённое число в [min, max)
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// truncateRunes обрезает строку до n символов (по рунам, не байтам)
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
