package mocks

import (
	"context"

	"matjip/loader-service/internal/app/loader/entity"

	"github.com/stretchr/testify/mock"
)

// MockReviewLoadRepository мок для ReviewLoadRepository
type MockReviewLoadRepository struct {
	mock.Mock
}

func (m *MockReviewLoadRepository) InsertReviews(ctx context.Context, reviews []entity.Review) (int64, error) {
	args := m.Called(ctx, reviews)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewLoadRepository) InsertReviewPhotos(ctx context.Context, photos []entity.ReviewPhoto) (int64, error) {
	args := m.Called(ctx, photos)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewLoadRepository) TruncateReviewTables(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockReviewLoadRepository) RebuildRestaurantStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockChunkFileRepository мок для ChunkFileRepository
type MockChunkFileRepository struct {
	mock.Mock
}

func (m *MockChunkFileRepository) ListReviewFiles() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChunkFileRepository) ListPhotoFiles() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChunkFileRepository) ReadReviews(name string) ([]entity.Review, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *MockChunkFileRepository) ReadPhotos(name string) ([]entity.ReviewPhoto, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ReviewPhoto), args.Error(1)
}
