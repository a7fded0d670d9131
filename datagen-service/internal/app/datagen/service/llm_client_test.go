package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLLMConfig(url string) config.LLMConfig {
	return config.LLMConfig{
		APIURL:          url,
		APIKey:          "test-key",
		Model:           "gpt-5-nano",
		TimeoutSec:      5,
		MaxOutputTokens: 1024,
	}
}

// ===================== LLMAPIClient Tests =====================

func TestCreateCompletion_SendsExpectedRequest(t *testing.T) {
	// Arrange
	var gotRequest entity.LLMRequest
	var gotAuth, gotContentType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output_text": "generated text"}`))
	}))
	defer server.Close()

	client := NewLLMAPIClient(testLLMConfig(server.URL))

	// Act
	result, err := client.CreateCompletion(context.Background(), "system prompt", "user prompt")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "generated text", result)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "gpt-5-nano", gotRequest.Model)
	assert.Equal(t, 1024, gotRequest.MaxOutputTokens)
	require.Len(t, gotRequest.Input, 2)
	assert.Equal(t, "system", gotRequest.Input[0].Role)
	assert.Equal(t, "system prompt", gotRequest.Input[0].Content)
	assert.Equal(t, "user", gotRequest.Input[1].Role)
	assert.Equal(t, "user prompt", gotRequest.Input[1].Content)
}

func TestCreateCompletion_NonOKStatus(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer server.Close()

	client := NewLLMAPIClient(testLLMConfig(server.URL))

	// Act
	result, err := client.CreateCompletion(context.Background(), "sys", "user")

	// Assert
	require.Error(t, err)
	assert.Empty(t, result)
	assert.Contains(t, err.Error(), "API returned status 429")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestCreateCompletion_InvalidResponseBody(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewLLMAPIClient(testLLMConfig(server.URL))

	// Act
	_, err := client.CreateCompletion(context.Background(), "sys", "user")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal API response")
}

func TestCreateCompletion_ServerUnreachable(t *testing.T) {
	// Arrange
	client := NewLLMAPIClient(testLLMConfig("http://127.0.0.1:1"))

	// Act
	_, err := client.CreateCompletion(context.Background(), "sys", "user")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute request")
}

func TestCreateCompletion_CancelledContext(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output_text": "ok"}`))
	}))
	defer server.Close()

	client := NewLLMAPIClient(testLLMConfig(server.URL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := client.CreateCompletion(ctx, "sys", "user")

	// Assert
	assert.Error(t, err)
}
