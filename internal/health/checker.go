package health

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/chroma"
	"github.com/talentiq/recommender/internal/database"
	"github.com/talentiq/recommender/internal/models"
)

// HealthChecker probes the backing services and records the results in the
// system_health table.
type HealthChecker struct {
	dbManager    *database.Manager
	chromaClient *chroma.Client
	healthRepo   models.SystemHealthRepository
	logger       *logrus.Logger
}

func NewHealthChecker(dbManager *database.Manager, chromaClient *chroma.Client, healthRepo models.SystemHealthRepository, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		dbManager:    dbManager,
		chromaClient: chromaClient,
		healthRepo:   healthRepo,
		logger:       logger,
	}
}

// ServiceHealth is the status of one backing service.
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth aggregates the individual service checks.
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

// CheckPostgreSQL checks PostgreSQL database health
func (h *HealthChecker) CheckPostgreSQL() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingDatabase()
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("PostgreSQL health check failed")
	}

	h.healthRepo.UpdateServiceHealth("postgresql", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "postgresql",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckRedis checks Redis cache health
func (h *HealthChecker) CheckRedis() ServiceHealth {
	start := time.Now()
	err := h.dbManager.PingRedis()
	responseTime := int(time.Since(start).Milliseconds())

	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("Redis health check failed")
	}

	h.healthRepo.UpdateServiceHealth("redis", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "redis",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckChroma checks vector store health via its heartbeat endpoint.
func (h *HealthChecker) CheckChroma() ServiceHealth {
	start := time.Now()
	err := h.chromaClient.Heartbeat()
	responseTime := int(time.Since(start).Milliseconds())
	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).Error("Chroma health check failed")
	}

	h.healthRepo.UpdateServiceHealth("chroma", status, responseTime, errorMsg)

	return ServiceHealth{
		Name:         "chroma",
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *HealthChecker) CheckAll() OverallHealth {
	services := []ServiceHealth{
		h.CheckPostgreSQL(),
		h.CheckRedis(),
		h.CheckChroma(),
	}

	overallStatus := "healthy"
	for _, service := range services {
		if service.Status == "unhealthy" {
			overallStatus = "unhealthy"
			break
		}
		if service.Status == "degraded" && overallStatus == "healthy" {
			overallStatus = "degraded"
		}
	}

	return OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   h.getUptime(),
	}
}

var startTime = time.Now()

func (h *HealthChecker) getUptime() string {
	return time.Since(startTime).String()
}

// PeriodicHealthCheck runs health checks until the context is cancelled.
func (h *HealthChecker) PeriodicHealthCheck(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := h.CheckAll()
			h.logger.WithFields(logrus.Fields{
				"status":   health.Status,
				"services": len(health.Services),
			}).Debug("Periodic health check completed")
		}
	}
}
