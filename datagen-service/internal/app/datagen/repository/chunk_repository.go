package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"matjip/datagen-service/internal/app/datagen/entity"
)

// chunkRepository реализует ChunkRepository поверх JSON файлов в dataDir
type chunkRepository struct {
	dataDir string
}

// NewChunkRepository создает репозиторий чанков; dataDir создается при необходимости
func NewChunkRepository(dataDir string) (ChunkRepository, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dataDir, err)
	}
	return &chunkRepository{dataDir: dataDir}, nil
}

// WriteReviewChunk записывает review_<lastID>.json.
// Ошибка записи фатальна для прогона: пропуск чанка нарушил бы плотность review_id.
func (r *chunkRepository) WriteReviewChunk(rows []entity.ReviewRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("refusing to write empty review chunk")
	}

	lastID := rows[len(rows)-1].ReviewID
	name := fmt.Sprintf("review_%d.json", lastID)

	if err := r.writeFile(name, rows); err != nil {
		return "", err
	}

	return name, nil
}

// WriteReviewPhotoChunk записывает review_photo_<lastID>.json.
// Файл пишется даже для пустого набора фото, чтобы пара чанков оставалась полной.
func (r *chunkRepository) WriteReviewPhotoChunk(lastReviewID int64, photos []entity.ReviewPhotoRow) (string, error) {
	name := fmt.Sprintf("review_photo_%d.json", lastReviewID)

	if photos == nil {
		photos = []entity.ReviewPhotoRow{}
	}

	if err := r.writeFile(name, photos); err != nil {
		return "", err
	}

	return name, nil
}

func (r *chunkRepository) writeFile(name string, v interface{}) error {
	path := filepath.Join(r.dataDir, name)

	data, err := marshalPrettyJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write chunk %s: %w", path, err)
	}

	return nil
}

// ListChunkFiles возвращает имена файлов prefix_<N>.json в каталоге dataDir,
// отсортированные по числовому суффиксу. Используется загрузчиком и тестами.
func ListChunkFiles(dataDir, prefix string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir %s: %w", dataDir, err)
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
