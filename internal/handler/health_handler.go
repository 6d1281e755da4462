package handler

import (
	"net/http"

	"taskflow/internal/repository"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	repo repository.TaskRepositoryInterface
}

func NewHealthHandler(repo repository.TaskRepositoryInterface) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Check reports liveness and the number of stored tasks. A storage
// failure degrades the status instead of failing the request.
func (h *HealthHandler) Check(c *gin.Context) {
	count, err := h.repo.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "unhealthy",
			"database": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"database":    "connected",
		"tasks_count": count,
	})
}
