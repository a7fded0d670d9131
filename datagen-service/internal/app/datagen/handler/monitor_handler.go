package handler

import (
	"net/http"

	"matjip/datagen-service/internal/app/datagen/service"

	"github.com/gin-gonic/gin"
)

// ProgressProvider отдаёт снимок прогресса текущего прогона
type ProgressProvider interface {
	Progress() service.ProgressSnapshot
}

// MonitorHandler обрабатывает HTTP запросы мониторинга прогона
type MonitorHandler struct {
	provider ProgressProvider
}

// NewMonitorHandler создает новый обработчик мониторинга
func NewMonitorHandler(provider ProgressProvider) *MonitorHandler {
	return &MonitorHandler{provider: provider}
}

// GetProgress обрабатывает GET /progress
func (h *MonitorHandler) GetProgress(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Progress())
}
