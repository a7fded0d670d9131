package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/infrastructure"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/pkg/logger"
	"matjip/pkg/metrics"

	"github.com/google/uuid"
)

const generatedAtLayout = "2006-01-02 15:04:05"

// ProgressSnapshot - моментальный снимок прогресса для HTTP endpoint'а
type ProgressSnapshot struct {
	RunID         string `json:"run_id"`
	Running       bool   `json:"running"`
	SlotsTotal    int64  `json:"slots_total"`
	BatchesTotal  int64  `json:"batches_total"`
	BatchesDone   int64  `json:"batches_done"`
	RowsWritten   int64  `json:"rows_written"`
	ChunksWritten int64  `json:"chunks_written"`
}

// PipelineService - оркестратор прогона генерации датасета.
// Батчи обрабатываются окнами по Concurrency штук; результаты окна
// передаются стримеру строго в порядке постановки, поэтому порядок
// готовности воркеров не влияет на нумерацию review_id.
type PipelineService struct {
	cfg         *config.Config
	catalogRepo repository.CatalogRepository
	chunkRepo   repository.ChunkRepository
	generator   ContentGenerator
	publisher   infrastructure.MessagePublisher

	runID        string
	running      atomic.Bool
	slotsTotal   atomic.Int64
	batchesTotal atomic.Int64
	batchesDone  atomic.Int64
	rows         atomic.Int64
	chunks       atomic.Int64
}

// NewPipelineService создает новый оркестратор. publisher может быть nil.
func NewPipelineService(
	cfg *config.Config,
	catalogRepo repository.CatalogRepository,
	chunkRepo repository.ChunkRepository,
	generator ContentGenerator,
	publisher infrastructure.MessagePublisher,
) *PipelineService {
	return &PipelineService{
		cfg:         cfg,
		catalogRepo: catalogRepo,
		chunkRepo:   chunkRepo,
		generator:   generator,
		publisher:   publisher,
		runID:       uuid.NewString(),
	}
}

// Progress возвращает снимок текущего прогресса прогона
func (p *PipelineService) Progress() ProgressSnapshot {
	return ProgressSnapshot{
		RunID:         p.runID,
		Running:       p.running.Load(),
		SlotsTotal:    p.slotsTotal.Load(),
		BatchesTotal:  p.batchesTotal.Load(),
		BatchesDone:   p.batchesDone.Load(),
		RowsWritten:   p.rows.Load(),
		ChunksWritten: p.chunks.Load(),
	}
}

// Run выполняет полный прогон: загрузка каталогов, планирование визитов,
// упаковка слотов, генерация контента окнами и потоковая запись чанков
func (p *PipelineService) Run(ctx context.Context) (*entity.RunSummary, error) {
	start := time.Now()
	p.running.Store(true)
	defer p.running.Store(false)

	restaurants, err := p.catalogRepo.LoadRestaurants()
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	users, err := p.catalogRepo.LoadUserAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to load user accounts: %w", err)
	}

	// Порядок ID фиксируется порядком записей во входных файлах
	restByID := make(map[int64]entity.Restaurant, len(restaurants))
	restaurantIDs := make([]int64, 0, len(restaurants))
	for _, r := range restaurants {
		restByID[r.RestaurantID] = r
		restaurantIDs = append(restaurantIDs, r.RestaurantID)
	}
	userIDs := make([]int64, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.UserID)
	}

	gen := NewGenContext(p.cfg.Pipeline.Seed)

	cohorts, err := PickCohorts(gen.Rand(), userIDs, p.cfg.Cohorts)
	if err != nil {
		return nil, err
	}

	plans := BuildVisitPlans(gen.Rand(), cohorts, restaurantIDs, p.cfg.Cohorts, p.cfg.Dates)
	slots := FlattenSlots(gen, cohorts, plans, restByID)
	batches := PackSlots(slots, p.cfg.Batch.TargetSlots, p.cfg.Batch.MaxSlots)

	p.slotsTotal.Store(int64(len(slots)))
	p.batchesTotal.Store(int64(len(batches)))
	metrics.DatagenSlotsPlanned.Set(float64(len(slots)))

	logger.Info().
		Str("run_id", p.runID).
		Int("restaurants", len(restaurants)).
		Int("users", len(users)).
		Int("slots", len(slots)).
		Int("batches", len(batches)).
		Msg("Generation plan built")

	streamer := NewReviewStreamer(
		ctx, p.chunkRepo, p.publisher, gen.StreamRand(), p.runID,
		p.cfg.Stream.ChunkSize, p.cfg.Stream.PhotoMin, p.cfg.Stream.PhotoMax,
	)

	if err := p.processBatches(ctx, batches, gen, streamer); err != nil {
		return nil, err
	}

	if err := streamer.Flush(); err != nil {
		return nil, err
	}

	p.rows.Store(streamer.RowsWritten())
	p.chunks.Store(streamer.ChunksWritten())

	duration := time.Since(start)
	metrics.DatagenRunDuration.Observe(duration.Seconds())

	summary := &entity.RunSummary{
		RunID:       p.runID,
		SlotsTotal:  len(slots),
		RowsWritten: streamer.RowsWritten(),
		Chunks:      streamer.ChunksWritten(),
		LLMUsed:     p.cfg.LLM.Enabled(),
		DurationSec: duration.Seconds(),
	}
	if fc, ok := p.generator.(interface{ RemoteFailures() int64 }); ok {
		summary.LLMFailures = fc.RemoteFailures()
	}

	return summary, nil
}

// processBatches обрабатывает батчи окнами фиксированного размера.
// Каждому батчу выдаётся производный rng по его глобальному индексу:
// содержимое отзывов не зависит от расписания горутин.
func (p *PipelineService) processBatches(
	ctx context.Context,
	batches [][]entity.Slot,
	gen *GenContext,
	streamer ReviewSink,
) error {
	nowts := p.cfg.Pipeline.GeneratedAt
	if nowts == "" {
		nowts = time.Now().Format(generatedAtLayout)
	}

	concurrency := p.cfg.Pipeline.Concurrency
	total := len(batches)

	for windowStart := 0; windowStart < total; windowStart += concurrency {
		if err := ctx.Err(); err != nil {
			return err
		}

		windowEnd := windowStart + concurrency
		if windowEnd > total {
			windowEnd = total
		}
		group := batches[windowStart:windowEnd]

		results := make([][]entity.ReviewRow, len(group))
		var wg sync.WaitGroup
		for i, batch := range group {
			wg.Add(1)
			go func(i int, globalIdx int, batch []entity.Slot) {
				defer wg.Done()
				rng := gen.BatchRand(globalIdx)
				reviews := p.generator.GenerateForSlots(ctx, batch, rng)
				results[i] = buildReviewRows(batch, reviews, nowts)
			}(i, windowStart+i, batch)
		}
		wg.Wait()

		// Сбор строго в порядке постановки батчей
		for _, rows := range results {
			if err := streamer.AddRows(rows); err != nil {
				return err
			}
			done := p.batchesDone.Add(1)
			p.rows.Store(streamer.RowsWritten())
			p.chunks.Store(streamer.ChunksWritten())
			logger.Debug().
				Int64("batch", done).
				Int("of", total).
				Int("rows", len(rows)).
				Msg("Batch collected")
		}

		// Пауза между окнами бережёт внешний сервис; локальный режим не ждёт
		if p.cfg.LLM.Enabled() && windowEnd < total && p.cfg.Pipeline.CooldownMS > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(p.cfg.Pipeline.CooldownMS) * time.Millisecond):
			}
		}
	}

	return nil
}

// buildReviewRows превращает результаты генерации в строки для записи.
// Контент сопоставляется по slot_id; генератор гарантирует полное покрытие батча.
func buildReviewRows(slots []entity.Slot, reviews []entity.GeneratedReview, nowts string) []entity.ReviewRow {
	bySlot := make(map[int64]entity.GeneratedReview, len(reviews))
	for _, r := range reviews {
		bySlot[r.SlotID] = r
	}

	rows := make([]entity.ReviewRow, 0, len(slots))
	for _, s := range slots {
		r, ok := bySlot[s.SlotID]
		if !ok {
			continue
		}
		rows = append(rows, entity.ReviewRow{
			UserID:       s.UserID,
			RestaurantID: s.RestaurantID,
			Rating:       r.Rating,
			ReviewText:   truncateRunes(r.ReviewText, maxReviewTextRunes),
			VisitedAt:    s.VisitedAt,
			IsDeleted:    false,
			CreatedAt:    nowts,
			UpdatedAt:    nowts,
		})
	}
	return rows
}
