package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/entity"
)

// LLMAPIClientImpl реализует интерфейс TextGenClient.
// Отвечает только за HTTP запросы к внешнему сервису генерации текста.
type LLMAPIClientImpl struct {
	apiURL          string
	apiKey          string
	model           string
	maxOutputTokens int
	httpClient      *http.Client
}

// NewLLMAPIClient создает новый HTTP клиент сервиса генерации текста
func NewLLMAPIClient(cfg config.LLMConfig) *LLMAPIClientImpl {
	return &LLMAPIClientImpl{
		apiURL:          cfg.APIURL,
		apiKey:          cfg.APIKey,
		model:           cfg.Model,
		maxOutputTokens: cfg.MaxOutputTokens,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSec) * time.Second,
		},
	}
}

// CreateCompletion отправляет пару system/user сообщений и возвращает output_text
func (c *LLMAPIClientImpl) CreateCompletion(ctx context.Context, systemMsg, userMsg string) (string, error) {
	payload := entity.LLMRequest{
		Model: c.model,
		Input: []entity.LLMMessage{
			{Role: "system", Content: systemMsg},
			{Role: "user", Content: userMsg},
		},
		MaxOutputTokens: c.maxOutputTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResponse entity.LLMResponse
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		return "", fmt.Errorf("failed to unmarshal API response: %w", err)
	}

	return apiResponse.OutputText, nil
}
