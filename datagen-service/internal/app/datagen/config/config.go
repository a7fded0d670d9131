package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config содержит все настройки Datagen Service.
// Все значения приходят из переменных окружения и валидируются на старте:
// некорректная конфигурация прерывает запуск до какой-либо генерации.
type Config struct {
	Data     DataConfig
	Dates    DateRangeConfig
	Cohorts  CohortConfig
	Batch    BatchConfig
	Stream   StreamConfig
	Pipeline PipelineConfig
	LLM      LLMConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Database DatabaseConfig
	Monitor  MonitorConfig
	Synth    SynthConfig
}

// DataConfig - каталог с входными/выходными JSON файлами
type DataConfig struct {
	Dir string `validate:"required"`
}

// DateRangeConfig - диапазон дат визитов [Start, End]
type DateRangeConfig struct {
	Start time.Time
	End   time.Time
}

// TotalDays возвращает количество календарных дней в диапазоне (включительно)
func (c *DateRangeConfig) TotalDays() int {
	return int(c.End.Sub(c.Start).Hours()/24) + 1
}

// ReviewRange - диапазон [Min, Max] целевого количества отзывов для когорты
type ReviewRange struct {
	Min int `validate:"min=0"`
	Max int `validate:"min=0"`
}

// CohortConfig - размеры когорт активности и их диапазоны отзывов
type CohortConfig struct {
	VIPCount       int `validate:"min=0"`
	LoyalCount     int `validate:"min=0"`
	RegularCount   int `validate:"min=0"`
	VIPReviews     ReviewRange
	LoyalReviews   ReviewRange
	RegularReviews ReviewRange
}

// BatchConfig - упаковка слотов в батчи для одного вызова генератора контента
type BatchConfig struct {
	TargetSlots int `validate:"min=1"` // целевой размер батча
	MaxSlots    int `validate:"min=1"` // жёсткий максимум, батч никогда не больше
}

// StreamConfig - потоковая запись чанков и производные фото-записи
type StreamConfig struct {
	ChunkSize int `validate:"min=1"`
	PhotoMin  int `validate:"min=0"`
	PhotoMax  int `validate:"min=0"`
}

// PipelineConfig - параметры оркестратора
type PipelineConfig struct {
	Concurrency int   `validate:"min=1"` // размер окна одновременных батчей
	Seed        int64 // сид генератора случайных чисел (детерминизм прогона)
	CooldownMS  int   `validate:"min=0"` // пауза между окнами при работе с LLM
	GeneratedAt string // переопределение created_at/updated_at (для воспроизводимости)
}

// LLMConfig - внешний сервис генерации текста.
// Пустой URL или ключ означает полный переход на локальный фолбэк.
type LLMConfig struct {
	APIURL          string
	APIKey          string
	Model           string
	TimeoutSec      int `validate:"min=1"`
	MaxOutputTokens int `validate:"min=0"`
}

// Enabled сообщает, сконфигурирован ли внешний сервис
func (c *LLMConfig) Enabled() bool {
	return c.APIURL != "" && c.APIKey != ""
}

// RedisConfig - опциональный кэш сгенерированного контента
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Enabled сообщает, сконфигурирован ли Redis
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

// KafkaConfig - опциональная публикация событий о записанных чанках
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled сообщает, сконфигурирована ли Kafka
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0 && c.Brokers[0] != ""
}

// DatabaseConfig - опциональный источник категорий для синтеза ресторанов
type DatabaseConfig struct {
	URL string // DATABASE_URL; пусто - используется встроенный список категорий
}

// Enabled сообщает, задан ли DATABASE_URL
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// MonitorConfig - HTTP endpoint здоровья/прогресса/метрик
type MonitorConfig struct {
	Enabled bool
	Port    string
}

// SynthConfig - синтез входных каталогов, если их файлы отсутствуют
type SynthConfig struct {
	UserCount       int `validate:"min=1"`
	RestaurantCount int `validate:"min=1"`
	LLMBatchSize    int `validate:"min=1"` // ресторанов на один запрос метаданных
	Force           bool
}

const dateLayout = "2006-01-02"

// Load загружает конфигурацию из переменных окружения и валидирует её
func Load() (*Config, error) {
	dateStart, err := time.Parse(dateLayout, getEnv("DATE_START", "2023-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATE_START: %w", err)
	}
	dateEnd, err := time.Parse(dateLayout, getEnv("DATE_END", "2025-07-31"))
	if err != nil {
		return nil, fmt.Errorf("invalid DATE_END: %w", err)
	}

	cfg := &Config{
		Data: DataConfig{
			Dir: getEnv("DATA_DIR", "./data"),
		},
		Dates: DateRangeConfig{
			Start: dateStart,
			End:   dateEnd,
		},
		Cohorts: CohortConfig{
			VIPCount:       getEnvInt("VIP_COUNT", 100),
			LoyalCount:     getEnvInt("LOYAL_COUNT", 1000),
			RegularCount:   getEnvInt("REGULAR_COUNT", 3000),
			VIPReviews:     getEnvRange("VIP_REVIEWS_RANGE", 80, 120),
			LoyalReviews:   getEnvRange("LOYAL_REVIEWS_RANGE", 10, 30),
			RegularReviews: getEnvRange("REGULAR_REVIEWS_RANGE", 1, 5),
		},
		Batch: BatchConfig{
			TargetSlots: getEnvInt("TARGET_SLOTS_PER_PROMPT", 20),
			MaxSlots:    getEnvInt("MAX_SLOTS_PER_PROMPT", 24),
		},
		Stream: StreamConfig{
			ChunkSize: getEnvInt("REVIEW_CHUNK_SIZE", 1000),
			PhotoMin:  getEnvInt("REVIEW_PHOTO_MIN", 0),
			PhotoMax:  getEnvInt("REVIEW_PHOTO_MAX", 3),
		},
		Pipeline: PipelineConfig{
			Concurrency: getEnvInt("CONCURRENT_PROMPTS", 20),
			Seed:        int64(getEnvInt("RANDOM_SEED", 777)),
			CooldownMS:  getEnvInt("WINDOW_COOLDOWN_MS", 200),
			GeneratedAt: getEnv("GENERATED_AT", ""),
		},
		LLM: LLMConfig{
			APIURL:          getEnv("LLM_API_URL", ""),
			APIKey:          getEnv("LLM_API_KEY", ""),
			Model:           getEnv("LLM_MODEL", "gpt-5-nano"),
			TimeoutSec:      getEnvInt("LLM_TIMEOUT_SEC", 60),
			MaxOutputTokens: getEnvInt("LLM_MAX_OUTPUT_TOKENS", 4096),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 3),
			TTL:      time.Duration(getEnvInt("REDIS_CONTENT_TTL_HOURS", 72)) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "dataset_events"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Monitor: MonitorConfig{
			Enabled: getEnvBool("MONITOR_ENABLED", true),
			Port:    getEnv("MONITOR_PORT", "8086"),
		},
		Synth: SynthConfig{
			UserCount:       getEnvInt("USER_COUNT", 5000),
			RestaurantCount: getEnvInt("NUM_RESTAURANTS", 2000),
			LLMBatchSize:    getEnvInt("SYNTH_LLM_BATCH_SIZE", 50),
			Force:           getEnvBool("SYNTH_FORCE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность конфигурации.
// Нарушение любого правила фатально: прогон не стартует.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Dates.End.Before(c.Dates.Start) {
		return fmt.Errorf("DATE_END %s is before DATE_START %s",
			c.Dates.End.Format(dateLayout), c.Dates.Start.Format(dateLayout))
	}

	for name, r := range map[string]ReviewRange{
		"VIP_REVIEWS_RANGE":     c.Cohorts.VIPReviews,
		"LOYAL_REVIEWS_RANGE":   c.Cohorts.LoyalReviews,
		"REGULAR_REVIEWS_RANGE": c.Cohorts.RegularReviews,
	} {
		if r.Max < r.Min {
			return fmt.Errorf("%s: max %d is less than min %d", name, r.Max, r.Min)
		}
	}

	if c.Batch.MaxSlots < c.Batch.TargetSlots {
		return fmt.Errorf("MAX_SLOTS_PER_PROMPT %d is less than TARGET_SLOTS_PER_PROMPT %d",
			c.Batch.MaxSlots, c.Batch.TargetSlots)
	}

	if c.Stream.PhotoMax < c.Stream.PhotoMin {
		return fmt.Errorf("REVIEW_PHOTO_MAX %d is less than REVIEW_PHOTO_MIN %d",
			c.Stream.PhotoMax, c.Stream.PhotoMin)
	}

	if c.Pipeline.GeneratedAt != "" {
		if _, err := time.Parse("2006-01-02 15:04:05", c.Pipeline.GeneratedAt); err != nil {
			return fmt.Errorf("invalid GENERATED_AT: %w", err)
		}
	}

	return nil
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает значение переменной окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool получает значение переменной окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "1", "true", "yes":
			return true
		case "0", "false", "no":
			return false
		}
	}
	return defaultValue
}

// getEnvRange разбирает диапазон вида "80,120"; при ошибке формата - значения по умолчанию
func getEnvRange(key string, defMin, defMax int) ReviewRange {
	value := os.Getenv(key)
	if value == "" {
		return ReviewRange{Min: defMin, Max: defMax}
	}

	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return ReviewRange{Min: defMin, Max: defMax}
	}

	min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return ReviewRange{Min: defMin, Max: defMax}
	}

	return ReviewRange{Min: min, Max: max}
}

// splitNonEmpty разбивает строку по запятым, отбрасывая пустые элементы
func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
