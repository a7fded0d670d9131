package service

import (
	"context"
	"math/rand"

	"matjip/datagen-service/internal/app/datagen/entity"
)

// TextGenClient определяет интерфейс для взаимодействия с внешним сервисом генерации текста
type TextGenClient interface {
	// CreateCompletion отправляет system/user сообщения и возвращает сырой output_text
	CreateCompletion(ctx context.Context, systemMsg, userMsg string) (string, error)
}

// ContentGenerator определяет интерфейс генерации контента отзывов для батча слотов.
// Реализация никогда не возвращает ошибку наружу: любой сбой внешнего сервиса
// закрывается локальным фолбэком, результат всегда покрывает все слоты батча.
type ContentGenerator interface {
	// GenerateForSlots возвращает контент для каждого слота батча в порядке слотов
	GenerateForSlots(ctx context.Context, slots []entity.Slot, rng *rand.Rand) []entity.GeneratedReview
}

// ReviewSink определяет интерфейс потокового приёмника готовых строк отзывов
type ReviewSink interface {
	// AddRows присваивает review_id, буферизует строки и пишет полные чанки
	AddRows(rows []entity.ReviewRow) error
	// Flush записывает остаток буфера как финальный чанк
	Flush() error
	// RowsWritten возвращает количество записанных строк отзывов
	RowsWritten() int64
	// ChunksWritten возвращает количество записанных файлов-чанков
	ChunksWritten() int64
}
