package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"matjip/loader-service/internal/app/loader/entity"
)

// chunkFileRepository реализует ChunkFileRepository поверх JSON файлов в dataDir
type chunkFileRepository struct {
	dataDir string
}

// NewChunkFileRepository создает новый репозиторий файлов-чанков
func NewChunkFileRepository(dataDir string) ChunkFileRepository {
	return &chunkFileRepository{dataDir: dataDir}
}

// ListReviewFiles возвращает review_*.json в порядке числового суффикса
func (r *chunkFileRepository) ListReviewFiles() ([]string, error) {
	return r.listByPrefix("review")
}

// ListPhotoFiles возвращает review_photo_*.json в порядке числового суффикса
func (r *chunkFileRepository) ListPhotoFiles() ([]string, error) {
	return r.listByPrefix("review_photo")
}

// ReadReviews читает один файл отзывов
func (r *chunkFileRepository) ReadReviews(name string) ([]entity.Review, error) {
	var reviews []entity.Review
	if err := r.readArray(name, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReadPhotos читает один файл фото
func (r *chunkFileRepository) ReadPhotos(name string) ([]entity.ReviewPhoto, error) {
	var photos []entity.ReviewPhoto
	if err := r.readArray(name, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

// listByPrefix находит файлы prefix_<N>.json и сортирует их по N.
// Паттерн точный: review_* не захватывает review_photo_*.
func (r *chunkFileRepository) listByPrefix(prefix string) ([]string, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", r.dataDir, err)
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `_(\d+)\.json$`)

	type numbered struct {
		n    int64
		name string
	}
	var files []numbered

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		files = append(files, numbered{n: n, name: e.Name()})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.name)
	}
	return names, nil
}

// readArray читает JSON массив; не-массив это фатальная ошибка входных данных
func (r *chunkFileRepository) readArray(name string, out interface{}) error {
	path := filepath.Join(r.dataDir, name)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s is not a valid JSON array: %w", path, err)
	}

	return nil
}
