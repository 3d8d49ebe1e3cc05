package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/database"
	"github.com/talentiq/recommender/internal/models"
	"github.com/talentiq/recommender/internal/repository"
	"github.com/talentiq/recommender/internal/services"
	"github.com/talentiq/recommender/pkg/utils"
)

const maxQueryLength = 2000

type RecommendHandler struct {
	recommendService *services.RecommendService
	repoManager      *repository.RepositoryManager
	cache            *database.Cache
	logger           *logrus.Logger
}

func NewRecommendHandler(
	recommendService *services.RecommendService,
	repoManager *repository.RepositoryManager,
	cache *database.Cache,
	logger *logrus.Logger,
) *RecommendHandler {
	return &RecommendHandler{
		recommendService: recommendService,
		repoManager:      repoManager,
		cache:            cache,
		logger:           logger,
	}
}

// HandleRecommend serves assessment recommendations. Bad input gets a 400;
// everything past validation is fail-open and a caller always receives the
// recommended_assessments shape, possibly empty.
func (h *RecommendHandler) HandleRecommend(c *gin.Context) {
	startTime := time.Now()

	var req models.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid recommend request")
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query cannot be empty", nil)
		return
	}

	if len(query) > maxQueryLength {
		utils.ErrorResponse(c, http.StatusBadRequest, "Query too long (max 2000 characters)", nil)
		return
	}

	userSession := h.getUserSession(c)

	h.logger.WithFields(logrus.Fields{
		"query":        query,
		"user_session": userSession,
		"ip_address":   c.ClientIP(),
	}).Info("Processing recommend request")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	var recommendations []models.Recommendation

	cacheKey := h.generateCacheKey(query)
	cached := &models.RecommendResponse{}

	if h.cache != nil && h.cache.GetCachedRecommendations(ctx, cacheKey, cached) == nil {
		h.logger.Debug("Recommendations served from cache")
		recommendations = cached.RecommendedAssessments
	} else {
		recommendations = h.recommendService.Recommend(ctx, query)

		if h.cache != nil {
			cachedResp := &models.RecommendResponse{RecommendedAssessments: recommendations}
			if err := h.cache.CacheRecommendations(ctx, cacheKey, cachedResp, 5*time.Minute); err != nil {
				h.logger.WithError(err).Warn("Failed to cache recommendations")
			}
		}
	}

	responseTime := time.Since(startTime)

	go h.trackRecommendQuery(userSession, query, len(recommendations), responseTime, c.GetHeader("User-Agent"), c.ClientIP())

	h.logger.WithFields(logrus.Fields{
		"results_count": len(recommendations),
		"response_time": responseTime.Milliseconds(),
	}).Info("Recommendation completed")

	c.JSON(http.StatusOK, models.RecommendResponse{
		RecommendedAssessments: recommendations,
	})
}

// HandleRecentQueries returns recently served queries for inspection.
func (h *RecommendHandler) HandleRecentQueries(c *gin.Context) {
	queries, err := h.repoManager.RecommendQuery.GetRecent(20)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load recent queries")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load recent queries", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Recent queries retrieved", queries)
}

func (h *RecommendHandler) getUserSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return utils.GenerateSessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}

func (h *RecommendHandler) generateCacheKey(query string) string {
	return utils.MD5Hash(strings.ToLower(query))
}

func (h *RecommendHandler) trackRecommendQuery(userSession, query string, resultsCount int, responseTime time.Duration, userAgent, ipAddress string) {
	if h.repoManager == nil {
		return
	}

	record := &models.RecommendQuery{
		QueryText:       query,
		UserSession:     userSession,
		ResultsCount:    resultsCount,
		QueryTimestamp:  time.Now(),
		ResponseTimeMs:  int(responseTime.Milliseconds()),
		DetectedDomains: strings.Join(h.recommendService.DetectedDomains(query), ","),
		UserAgent:       userAgent,
		IPAddress:       ipAddress,
	}

	if err := h.repoManager.RecommendQuery.Create(record); err != nil {
		h.logger.WithError(err).Error("Failed to track recommend query")
	}
}
