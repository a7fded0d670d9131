package mocks

import (
	"context"

	"matjip/datagen-service/internal/app/datagen/entity"

	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository мок для CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) LoadRestaurants() ([]entity.Restaurant, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Restaurant), args.Error(1)
}

func (m *MockCatalogRepository) LoadUserAccounts() ([]entity.UserAccount, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserAccount), args.Error(1)
}

func (m *MockCatalogRepository) HasRestaurants() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCatalogRepository) HasUserAccounts() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockCatalogRepository) SaveUserAccounts(users []entity.UserAccount) error {
	args := m.Called(users)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveUserProfiles(profiles []entity.UserProfile) error {
	args := m.Called(profiles)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveRestaurants(restaurants []entity.Restaurant) error {
	args := m.Called(restaurants)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveRestaurantLocations(locations []entity.RestaurantLocation) error {
	args := m.Called(locations)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveRestaurantImages(images []entity.RestaurantImage) error {
	args := m.Called(images)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveRestaurantCategoryLinks(links []entity.RestaurantCategoryLink) error {
	args := m.Called(links)
	return args.Error(0)
}

// MockChunkRepository мок для ChunkRepository.
// Помимо ожиданий testify накапливает записанные чанки для проверок содержимого.
type MockChunkRepository struct {
	mock.Mock
	ReviewChunks [][]entity.ReviewRow
	PhotoChunks  [][]entity.ReviewPhotoRow
}

func (m *MockChunkRepository) WriteReviewChunk(rows []entity.ReviewRow) (string, error) {
	m.ReviewChunks = append(m.ReviewChunks, rows)
	args := m.Called(rows)
	return args.String(0), args.Error(1)
}

func (m *MockChunkRepository) WriteReviewPhotoChunk(lastReviewID int64, photos []entity.ReviewPhotoRow) (string, error) {
	m.PhotoChunks = append(m.PhotoChunks, photos)
	args := m.Called(lastReviewID, photos)
	return args.String(0), args.Error(1)
}

// MockContentCacheRepository мок для ContentCacheRepository
type MockContentCacheRepository struct {
	mock.Mock
}

func (m *MockContentCacheRepository) GetMultiple(ctx context.Context, keys []string) (map[string]entity.CachedReview, error) {
	args := m.Called(ctx, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]entity.CachedReview), args.Error(1)
}

func (m *MockContentCacheRepository) SetMultiple(ctx context.Context, entries map[string]entity.CachedReview) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

// MockCategoryRepository мок для CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListActive(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

// MockTextGenClient мок для клиента внешнего сервиса генерации текста
type MockTextGenClient struct {
	mock.Mock
}

func (m *MockTextGenClient) CreateCompletion(ctx context.Context, systemMsg, userMsg string) (string, error) {
	args := m.Called(ctx, systemMsg, userMsg)
	return args.String(0), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
