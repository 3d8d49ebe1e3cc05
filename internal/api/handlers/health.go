package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/health"
	"github.com/talentiq/recommender/internal/models"
)

type HealthHandler struct {
	checker *health.HealthChecker
	logger  *logrus.Logger
}

func NewHealthHandler(checker *health.HealthChecker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// HandleHealth reports liveness plus per-dependency status. The endpoint
// itself always answers 200; dependency failures show up in the body.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	overall := h.checker.CheckAll()

	services := make(map[string]string, len(overall.Services))
	for _, service := range overall.Services {
		services[service.Name] = service.Status
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    overall.Status,
		Service:   "assessment-recommender",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}

// HandleDetailedHealth exposes the full check results with latencies.
func (h *HealthHandler) HandleDetailedHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.checker.CheckAll())
}
