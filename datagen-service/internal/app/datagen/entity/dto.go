package entity

// LLMMessage - одно сообщение в запросе к сервису генерации текста
type LLMMessage struct {
	Role    string `json:"role"` // system | user
	Content string `json:"content"`
}

// LLMRequest - запрос к внешнему сервису генерации текста
type LLMRequest struct {
	Model           string       `json:"model"`
	Input           []LLMMessage `json:"input"`
	MaxOutputTokens int          `json:"max_output_tokens,omitempty"`
}

// LLMResponse - ответ внешнего сервиса генерации текста.
// Полезная нагрузка - output_text, JSON-строки разбираются на нашей стороне.
type LLMResponse struct {
	OutputText string `json:"output_text"`
}

// LLMSlotItem - элемент батча слотов в пользовательском сообщении
type LLMSlotItem struct {
	SlotID                int64  `json:"slot_id"`
	RestaurantName        string `json:"restaurant_name"`
	RestaurantDescription string `json:"restaurant_description"`
}

// RestaurantMeta - метаданные ресторана от LLM (или локального фолбэка)
// при синтезе входного каталога
type RestaurantMeta struct {
	Name         string
	Description  string
	Categories   []string
	OpeningHours string
}

// RunSummary - итог прогона пайплайна для финального лога
type RunSummary struct {
	RunID       string  `json:"run_id"`
	SlotsTotal  int     `json:"slots_total"`
	RowsWritten int64   `json:"rows_written"`
	Chunks      int64   `json:"chunks_written"`
	LLMUsed     bool    `json:"llm_used"`
	LLMFailures int64   `json:"llm_failures"`
	DurationSec float64 `json:"duration_sec"`
}
