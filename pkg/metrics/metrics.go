package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики (общие для всех сервисов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Database Метрики
// =============================================================================

// DbQueryDuration - время выполнения SQL запросов
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - счётчик ошибок базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (кэш сгенерированного контента)
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisOperationDuration - время операций Redis
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики (события о записанных чанках)
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики: Datagen Service
// =============================================================================

// DatagenSlotsPlanned - количество запланированных слотов генерации
var DatagenSlotsPlanned = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "datagen_slots_planned",
		Help: "Number of review slots planned for the current run",
	},
)

// DatagenBatchesProcessed - обработанные батчи по источнику контента
var DatagenBatchesProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "datagen_batches_processed_total",
		Help: "Total number of slot batches processed",
	},
	[]string{"source"}, // llm, fallback
)

// DatagenLLMErrors - ошибки обращения к внешнему сервису генерации текста
var DatagenLLMErrors = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "datagen_llm_errors_total",
		Help: "Total number of failed text-generation service calls",
	},
)

// DatagenReviewsWritten - записанные строки отзывов
var DatagenReviewsWritten = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "datagen_reviews_written_total",
		Help: "Total number of review rows written to chunk files",
	},
)

// DatagenChunksWritten - записанные файлы-чанки
var DatagenChunksWritten = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "datagen_chunks_written_total",
		Help: "Total number of chunk files written",
	},
)

// DatagenRunDuration - длительность полного прогона генерации
var DatagenRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "datagen_run_duration_seconds",
		Help:    "Duration of a full dataset generation run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	},
)

// =============================================================================
// Business Метрики: Loader Service
// =============================================================================

// LoaderRowsInserted - строки, вставленные в Postgres по таблицам
var LoaderRowsInserted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loader_rows_inserted_total",
		Help: "Total number of rows bulk-inserted into Postgres",
	},
	[]string{"table"},
)

// LoaderFilesLoaded - обработанные файлы-чанки
var LoaderFilesLoaded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "loader_files_loaded_total",
		Help: "Total number of chunk files loaded",
	},
	[]string{"table"},
)
