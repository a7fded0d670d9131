package service

import "math/rand"

// batchSeedMix - множитель для вывода независимых сидов батчей из сида прогона:
// 64-битная константа золотого сечения 0x9e3779b97f4a7c15 в знаковом представлении
const batchSeedMix int64 = -0x61c8864680b583eb

// GenContext владеет случайностью прогона генерации.
// Планирование (когорты, даты, выбор ресторанов) идёт через единый Rand
// в одном потоке, поэтому при фиксированном сиде план детерминирован.
// Батчам выдаются независимые производные источники: порядок завершения
// воркеров не влияет на содержимое отзывов.
type GenContext struct {
	seed       int64
	rng        *rand.Rand
	nextSlotID int64
}

// NewGenContext создает контекст генерации с фиксированным сидом
func NewGenContext(seed int64) *GenContext {
	return &GenContext{
		seed:       seed,
		rng:        rand.New(rand.NewSource(seed)),
		nextSlotID: 1,
	}
}

// Rand возвращает основной источник случайности фазы планирования
func (g *GenContext) Rand() *rand.Rand {
	return g.rng
}

// NextSlotID выдает следующий идентификатор слота (монотонно с 1)
func (g *GenContext) NextSlotID() int64 {
	id := g.nextSlotID
	g.nextSlotID++
	return id
}

// BatchRand возвращает независимый источник случайности для батча с индексом idx
func (g *GenContext) BatchRand(idx int) *rand.Rand {
	derived := g.seed ^ (int64(idx)+1)*batchSeedMix
	return rand.New(rand.NewSource(derived))
}

// StreamRand возвращает источник случайности стримера (количество фото).
// Выделен отдельно, чтобы фото-записи не зависели от хода генерации контента.
func (g *GenContext) StreamRand() *rand.Rand {
	return rand.New(rand.NewSource(g.seed ^ batchSeedMix))
}
