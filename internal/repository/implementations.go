package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talentiq/recommender/internal/models"
)

// AssessmentRepositoryImpl implements AssessmentRepository
type AssessmentRepositoryImpl struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) models.AssessmentRepository {
	return &AssessmentRepositoryImpl{db: db}
}

func (r *AssessmentRepositoryImpl) Create(assessment *models.Assessment) error {
	return r.db.Create(assessment).Error
}

func (r *AssessmentRepositoryImpl) Upsert(assessment *models.Assessment) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "test_type", "duration_minutes",
			"adaptive_support", "remote_support", "content_hash",
			"crawl_status", "last_crawled", "is_active", "updated_at",
		}),
	}).Create(assessment).Error
}

func (r *AssessmentRepositoryImpl) GetByURL(url string) (*models.Assessment, error) {
	var assessment models.Assessment
	err := r.db.Where("url = ?", url).First(&assessment).Error
	if err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (r *AssessmentRepositoryImpl) GetAll() ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.Find(&assessments).Error
	return assessments, err
}

func (r *AssessmentRepositoryImpl) GetActive() ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.Where("is_active = ?", true).Find(&assessments).Error
	return assessments, err
}

func (r *AssessmentRepositoryImpl) UpdateCrawlStatus(id uint, status string) error {
	return r.db.Model(&models.Assessment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"crawl_status": status,
			"last_crawled": time.Now(),
		}).Error
}

func (r *AssessmentRepositoryImpl) GetByCrawlStatus(status string) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.Where("crawl_status = ?", status).Find(&assessments).Error
	return assessments, err
}

func (r *AssessmentRepositoryImpl) Delete(id uint) error {
	return r.db.Delete(&models.Assessment{}, id).Error
}

// RecommendQueryRepositoryImpl implements RecommendQueryRepository
type RecommendQueryRepositoryImpl struct {
	db *gorm.DB
}

func NewRecommendQueryRepository(db *gorm.DB) models.RecommendQueryRepository {
	return &RecommendQueryRepositoryImpl{db: db}
}

func (r *RecommendQueryRepositoryImpl) Create(query *models.RecommendQuery) error {
	return r.db.Create(query).Error
}

func (r *RecommendQueryRepositoryImpl) GetBySession(session string) ([]models.RecommendQuery, error) {
	var queries []models.RecommendQuery
	err := r.db.Where("user_session = ?", session).
		Order("query_timestamp DESC").
		Find(&queries).Error
	return queries, err
}

func (r *RecommendQueryRepositoryImpl) GetRecent(limit int) ([]models.RecommendQuery, error) {
	var queries []models.RecommendQuery
	err := r.db.Order("query_timestamp DESC").
		Limit(limit).
		Find(&queries).Error
	return queries, err
}

// SystemHealthRepositoryImpl implements SystemHealthRepository
type SystemHealthRepositoryImpl struct {
	db *gorm.DB
}

func NewSystemHealthRepository(db *gorm.DB) models.SystemHealthRepository {
	return &SystemHealthRepositoryImpl{db: db}
}

func (r *SystemHealthRepositoryImpl) UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error {
	return r.db.Exec(`
		INSERT INTO system_health (service_name, status, response_time_ms, error_message, checked_at)
		VALUES (?, ?, ?, ?, NOW())
	`, serviceName, status, responseTime, errorMsg).Error
}

func (r *SystemHealthRepositoryImpl) GetServiceHealth(serviceName string) (*models.SystemHealth, error) {
	var health models.SystemHealth
	err := r.db.Where("service_name = ?", serviceName).
		Order("checked_at DESC").
		First(&health).Error
	if err != nil {
		return nil, err
	}
	return &health, nil
}

func (r *SystemHealthRepositoryImpl) GetAllServicesHealth() ([]models.SystemHealth, error) {
	var health []models.SystemHealth
	err := r.db.Raw(`
		SELECT DISTINCT ON (service_name) *
		FROM system_health
		ORDER BY service_name, checked_at DESC
	`).Scan(&health).Error
	return health, err
}

// RepositoryManager bundles all repositories
type RepositoryManager struct {
	Assessment     models.AssessmentRepository
	RecommendQuery models.RecommendQueryRepository
	SystemHealth   models.SystemHealthRepository
}

func NewRepositoryManager(db *gorm.DB) *RepositoryManager {
	return &RepositoryManager{
		Assessment:     NewAssessmentRepository(db),
		RecommendQuery: NewRecommendQueryRepository(db),
		SystemHealth:   NewSystemHealthRepository(db),
	}
}
