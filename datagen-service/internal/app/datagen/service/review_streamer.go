package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/infrastructure"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/pkg/logger"
	"matjip/pkg/metrics"
)

// chunkEventType - тип события о записанном чанке
const chunkEventType = "REVIEW_CHUNK_WRITTEN"

// ReviewStreamerImpl реализует интерфейс ReviewSink.
// Буферизует строки отзывов, присваивая плотные монотонные review_id,
// и пишет парные файлы review_*/review_photo_* по chunkSize строк.
// Собственный rng: количество фото не зависит от хода генерации контента.
type ReviewStreamerImpl struct {
	ctx       context.Context
	chunkRepo repository.ChunkRepository
	publisher infrastructure.MessagePublisher
	rng       *rand.Rand

	runID     string
	chunkSize int
	photoMin  int
	photoMax  int

	buffer       []entity.ReviewRow
	nextReviewID int64

	rowsWritten   atomic.Int64
	chunksWritten atomic.Int64
}

// NewReviewStreamer создает новый потоковый приёмник отзывов.
// publisher может быть nil: события о чанках тогда не публикуются.
func NewReviewStreamer(
	ctx context.Context,
	chunkRepo repository.ChunkRepository,
	publisher infrastructure.MessagePublisher,
	rng *rand.Rand,
	runID string,
	chunkSize, photoMin, photoMax int,
) *ReviewStreamerImpl {
	return &ReviewStreamerImpl{
		ctx:          ctx,
		chunkRepo:    chunkRepo,
		publisher:    publisher,
		rng:          rng,
		runID:        runID,
		chunkSize:    chunkSize,
		photoMin:     photoMin,
		photoMax:     photoMax,
		nextReviewID: 1,
	}
}

// AddRows присваивает review_id, буферизует строки и пишет полные чанки.
// Ошибка записи фатальна: продолжение оставило бы дыру в плотной нумерации.
func (s *ReviewStreamerImpl) AddRows(rows []entity.ReviewRow) error {
	for i := range rows {
		rows[i].ReviewID = s.nextReviewID
		s.nextReviewID++
		s.buffer = append(s.buffer, rows[i])
	}

	for len(s.buffer) >= s.chunkSize {
		chunk := s.buffer[:s.chunkSize]
		if err := s.writeChunk(chunk); err != nil {
			return err
		}
		// Освобождаем память записанного чанка
		s.buffer = append([]entity.ReviewRow(nil), s.buffer[s.chunkSize:]...)
	}

	return nil
}

// Flush записывает остаток буфера (< chunkSize) как финальный чанк
func (s *ReviewStreamerImpl) Flush() error {
	if len(s.buffer) == 0 {
		return nil
	}

	if err := s.writeChunk(s.buffer); err != nil {
		return err
	}
	s.buffer = nil

	return nil
}

// RowsWritten возвращает количество записанных строк отзывов
func (s *ReviewStreamerImpl) RowsWritten() int64 {
	return s.rowsWritten.Load()
}

// ChunksWritten возвращает количество записанных файлов-чанков
func (s *ReviewStreamerImpl) ChunksWritten() int64 {
	return s.chunksWritten.Load()
}

// writeChunk пишет парные файлы отзывов и фото, затем публикует событие
func (s *ReviewStreamerImpl) writeChunk(chunk []entity.ReviewRow) error {
	lastID := chunk[len(chunk)-1].ReviewID

	reviewFile, err := s.chunkRepo.WriteReviewChunk(chunk)
	if err != nil {
		return fmt.Errorf("failed to write review chunk: %w", err)
	}

	photos := s.buildReviewPhotos(chunk)
	photoFile, err := s.chunkRepo.WriteReviewPhotoChunk(lastID, photos)
	if err != nil {
		return fmt.Errorf("failed to write review photo chunk: %w", err)
	}

	s.rowsWritten.Add(int64(len(chunk)))
	s.chunksWritten.Add(1)
	metrics.DatagenReviewsWritten.Add(float64(len(chunk)))
	metrics.DatagenChunksWritten.Inc()

	logger.Info().
		Str("review_file", reviewFile).
		Str("photo_file", photoFile).
		Int("rows", len(chunk)).
		Int("photos", len(photos)).
		Msg("Chunk written")

	s.publishChunkEvent(reviewFile, photoFile, len(chunk), lastID)

	return nil
}

// buildReviewPhotos генерирует 0..N фото-записей на отзыв.
// photo_id остаётся null: идентификатор присваивает хранилище при загрузке.
func (s *ReviewStreamerImpl) buildReviewPhotos(chunk []entity.ReviewRow) []entity.ReviewPhotoRow {
	var photos []entity.ReviewPhotoRow
	for _, rv := range chunk {
		n := s.photoMin + s.rng.Intn(s.photoMax-s.photoMin+1)
		for idx := 1; idx <= n; idx++ {
			photos = append(photos, entity.ReviewPhotoRow{
				PhotoID:   nil,
				ReviewID:  rv.ReviewID,
				ImageURL:  fmt.Sprintf("/reviews/%d/%d", rv.ReviewID, idx),
				IsDeleted: false,
				CreatedAt: rv.CreatedAt,
				UpdatedAt: rv.UpdatedAt,
			})
		}
	}
	return photos
}

// publishChunkEvent отправляет событие REVIEW_CHUNK_WRITTEN.
// Сбой публикации не прерывает прогон: файлы уже на диске.
func (s *ReviewStreamerImpl) publishChunkEvent(reviewFile, photoFile string, rows int, lastID int64) {
	if s.publisher == nil {
		return
	}

	event := entity.ChunkEvent{
		EventType:    chunkEventType,
		RunID:        s.runID,
		ReviewFile:   reviewFile,
		PhotoFile:    photoFile,
		Rows:         rows,
		LastReviewID: lastID,
		Timestamp:    time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to marshal chunk event")
		return
	}

	if err := s.publisher.PublishMessage(s.ctx, s.runID, value); err != nil {
		logger.Warn().Err(err).Str("review_file", reviewFile).Msg("Failed to publish chunk event")
	}
}
