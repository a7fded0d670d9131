package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"math/rand"
	"strings"
	"sync/atomic"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/pkg/logger"
	"matjip/pkg/metrics"
)

// Системный промпт генерации отзывов: ответ строго в формате JSON-строк
const reviewSystemPrompt = "You write concise Korean restaurant reviews.\n" +
	"- For each input item, output ONE JSON object per line with keys: slot_id, review_text, rating.\n" +
	"- review_text: <= 500 Korean characters, natural tone, match the restaurant context.\n" +
	"- rating: a float 0.0~5.0 (one decimal), consistent with sentiment.\n" +
	"- Output JSON lines only. No extra commentary."

// ReviewGeneratorImpl реализует интерфейс ContentGenerator.
// Порядок источников контента: Redis кэш -> внешний сервис -> локальный фолбэк.
// Клиент и кэш опциональны: без них генератор полностью локален.
type ReviewGeneratorImpl struct {
	client TextGenClient
	cache  repository.ContentCacheRepository

	remoteFailures atomic.Int64
}

// NewReviewGenerator создает новый генератор контента отзывов
func NewReviewGenerator(client TextGenClient, cache repository.ContentCacheRepository) *ReviewGeneratorImpl {
	return &ReviewGeneratorImpl{
		client: client,
		cache:  cache,
	}
}

// GenerateForSlots генерирует контент для каждого слота батча.
// Ошибок наружу нет: сбой внешнего сервиса закрывается фолбэком для всего батча,
// отсутствующие в ответе слоты добираются фолбэком по одному.
func (g *ReviewGeneratorImpl) GenerateForSlots(ctx context.Context, slots []entity.Slot, rng *rand.Rand) []entity.GeneratedReview {
	if len(slots) == 0 {
		return []entity.GeneratedReview{}
	}

	if g.client == nil {
		metrics.DatagenBatchesProcessed.WithLabelValues("fallback").Inc()
		return g.fallbackAll(slots, rng)
	}

	// Кэш: одинаковый ресторан даёт одинаковый контент, ключ не зависит от слота
	cached := g.lookupCache(ctx, slots)

	var pending []entity.Slot
	for _, s := range slots {
		if _, ok := cached[contentCacheKey(s)]; !ok {
			pending = append(pending, s)
		}
	}

	generated := map[int64]entity.GeneratedReview{}
	if len(pending) > 0 {
		generated = g.generateRemote(ctx, pending, rng)
	} else {
		metrics.DatagenBatchesProcessed.WithLabelValues("llm").Inc()
	}

	out := make([]entity.GeneratedReview, 0, len(slots))
	for _, s := range slots {
		if gr, ok := generated[s.SlotID]; ok {
			out = append(out, gr)
			continue
		}
		if cr, ok := cached[contentCacheKey(s)]; ok {
			out = append(out, entity.GeneratedReview{
				SlotID:     s.SlotID,
				ReviewText: cr.ReviewText,
				Rating:     cr.Rating,
			})
			continue
		}
		text, rating := FallbackReview(rng, s.RestaurantName, s.RestaurantDescription)
		out = append(out, entity.GeneratedReview{SlotID: s.SlotID, ReviewText: text, Rating: rating})
	}

	return out
}

// generateRemote вызывает внешний сервис для слотов, не закрытых кэшем.
// Возвращает результаты по slot_id; при полном сбое - фолбэк для всех слотов.
func (g *ReviewGeneratorImpl) generateRemote(ctx context.Context, slots []entity.Slot, rng *rand.Rand) map[int64]entity.GeneratedReview {
	items := make([]entity.LLMSlotItem, 0, len(slots))
	for _, s := range slots {
		items = append(items, entity.LLMSlotItem{
			SlotID:                s.SlotID,
			RestaurantName:        s.RestaurantName,
			RestaurantDescription: s.RestaurantDescription,
		})
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		metrics.DatagenBatchesProcessed.WithLabelValues("fallback").Inc()
		return g.fallbackMap(slots, rng)
	}
	userMsg := "Write reviews for these items. JSON lines only:\n" + string(itemsJSON)

	raw, err := g.client.CreateCompletion(ctx, reviewSystemPrompt, userMsg)
	if err != nil {
		logger.Warn().Err(err).Int("slots", len(slots)).Msg("Text generation request failed, falling back to local content")
		g.remoteFailures.Add(1)
		metrics.DatagenLLMErrors.Inc()
		metrics.DatagenBatchesProcessed.WithLabelValues("fallback").Inc()
		return g.fallbackMap(slots, rng)
	}

	results := parseReviewLines(raw)
	metrics.DatagenBatchesProcessed.WithLabelValues("llm").Inc()

	// Недостающие слоты добираем фолбэком поштучно
	toCache := make(map[string]entity.CachedReview)
	out := make(map[int64]entity.GeneratedReview, len(slots))
	for _, s := range slots {
		if gr, ok := results[s.SlotID]; ok {
			out[s.SlotID] = gr
			toCache[contentCacheKey(s)] = entity.CachedReview{ReviewText: gr.ReviewText, Rating: gr.Rating}
			continue
		}
		text, rating := FallbackReview(rng, s.RestaurantName, s.RestaurantDescription)
		out[s.SlotID] = entity.GeneratedReview{SlotID: s.SlotID, ReviewText: text, Rating: rating}
	}

	g.storeCache(ctx, toCache)

	return out
}

// RemoteFailures возвращает количество неудачных обращений к внешнему сервису
func (g *ReviewGeneratorImpl) RemoteFailures() int64 {
	return g.remoteFailures.Load()
}

// parseReviewLines разбирает ответ сервиса построчно.
// Мусорные строки молча пропускаются: контракт допускает частично валидный ответ.
func parseReviewLines(raw string) map[int64]entity.GeneratedReview {
	results := make(map[int64]entity.GeneratedReview)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var rec struct {
			SlotID     *int64   `json:"slot_id"`
			ReviewText *string  `json:"review_text"`
			Rating     *float64 `json:"rating"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.SlotID == nil || rec.ReviewText == nil || rec.Rating == nil {
			continue
		}

		results[*rec.SlotID] = entity.GeneratedReview{
			SlotID:     *rec.SlotID,
			ReviewText: truncateRunes(*rec.ReviewText, maxReviewTextRunes),
			Rating:     roundRating(clampRating(*rec.Rating)),
		}
	}

	return results
}

func (g *ReviewGeneratorImpl) fallbackAll(slots []entity.Slot, rng *rand.Rand) []entity.GeneratedReview {
	out := make([]entity.GeneratedReview, 0, len(slots))
	for _, s := range slots {
		text, rating := FallbackReview(rng, s.RestaurantName, s.RestaurantDescription)
		out = append(out, entity.GeneratedReview{SlotID: s.SlotID, ReviewText: text, Rating: rating})
	}
	return out
}

func (g *ReviewGeneratorImpl) fallbackMap(slots []entity.Slot, rng *rand.Rand) map[int64]entity.GeneratedReview {
	out := make(map[int64]entity.GeneratedReview, len(slots))
	for _, s := range slots {
		text, rating := FallbackReview(rng, s.RestaurantName, s.RestaurantDescription)
		out[s.SlotID] = entity.GeneratedReview{SlotID: s.SlotID, ReviewText: text, Rating: rating}
	}
	return out
}

// lookupCache читает кэш для всех слотов батча; ошибки кэша не фатальны
func (g *ReviewGeneratorImpl) lookupCache(ctx context.Context, slots []entity.Slot) map[string]entity.CachedReview {
	if g.cache == nil {
		return map[string]entity.CachedReview{}
	}

	seen := make(map[string]struct{}, len(slots))
	keys := make([]string, 0, len(slots))
	for _, s := range slots {
		key := contentCacheKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	cached, err := g.cache.GetMultiple(ctx, keys)
	if err != nil {
		logger.Warn().Err(err).Msg("Content cache lookup failed, proceeding without cache")
		return map[string]entity.CachedReview{}
	}
	return cached
}

// storeCache сохраняет свежесгенерированный контент; ошибки кэша не фатальны
func (g *ReviewGeneratorImpl) storeCache(ctx context.Context, entries map[string]entity.CachedReview) {
	if g.cache == nil || len(entries) == 0 {
		return
	}
	if err := g.cache.SetMultiple(ctx, entries); err != nil {
		logger.Warn().Err(err).Msg("Content cache store failed")
	}
}

// contentCacheKey - ключ кэша по содержимому ресторана, а не по слоту:
// перегенерация слотов не инвалидирует кэш
func contentCacheKey(s entity.Slot) string {
	sum := sha1.Sum([]byte(s.RestaurantName + "|" + s.RestaurantDescription))
	return hex.EncodeToString(sum[:])
}
