package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker 依存先の死活確認
type HealthChecker interface {
	HealthCheck() error
}

// HealthHandler ヘルスチェックのハンドラー
type HealthHandler struct {
	service  string
	checkers map[string]HealthChecker
}

// NewHealthHandler checkers のキーはレスポンスに出す依存先の名前
func NewHealthHandler(service string, checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		service:  service,
		checkers: checkers,
	}
}

// Check GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	for name, checker := range h.checkers {
		if err := checker.HealthCheck(); err != nil {
			deps[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"service":      h.service,
		"dependencies": deps,
	})
}
