package models

// GORM models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Assessment is one catalog product record. The URL is the identity key;
// the same record is mirrored into the vector store as document metadata.
type Assessment struct {
	BaseModel
	URL             string     `json:"url" gorm:"unique;not null"`
	Name            string     `json:"name" gorm:"not null"`
	Description     string     `json:"description" gorm:"type:text"`
	TestType        string     `json:"test_type"`
	DurationMinutes int        `json:"duration_minutes" gorm:"default:0"`
	AdaptiveSupport string     `json:"adaptive_support" gorm:"default:'No'"`
	RemoteSupport   string     `json:"remote_support" gorm:"default:'Yes'"`
	ContentHash     string     `json:"content_hash"`
	CrawlStatus     string     `json:"crawl_status" gorm:"default:'pending';check:crawl_status IN ('pending','crawling','completed','fallback','failed')"`
	LastCrawled     *time.Time `json:"last_crawled"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
}

// RecommendQuery records one served recommendation request for analytics.
type RecommendQuery struct {
	BaseModel
	QueryText       string    `json:"query_text" gorm:"not null"`
	UserSession     string    `json:"user_session"`
	ResultsCount    int       `json:"results_count" gorm:"default:0"`
	QueryTimestamp  time.Time `json:"query_timestamp" gorm:"default:NOW()"`
	ResponseTimeMs  int       `json:"response_time_ms"`
	DetectedDomains string    `json:"detected_domains"`
	UserAgent       string    `json:"user_agent"`
	IPAddress       string    `json:"ip_address" gorm:"type:inet"`
}

// SystemHealth represents service health monitoring
type SystemHealth struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ServiceName    string    `json:"service_name" gorm:"not null"`
	Status         string    `json:"status" gorm:"not null;check:status IN ('healthy','degraded','unhealthy')"`
	ResponseTimeMs int       `json:"response_time_ms"`
	ErrorMessage   string    `json:"error_message"`
	CheckedAt      time.Time `json:"checked_at" gorm:"default:NOW()"`
}

// Database interfaces for repository pattern
type AssessmentRepository interface {
	Create(assessment *Assessment) error
	Upsert(assessment *Assessment) error
	GetByURL(url string) (*Assessment, error)
	GetAll() ([]Assessment, error)
	GetActive() ([]Assessment, error)
	UpdateCrawlStatus(id uint, status string) error
	GetByCrawlStatus(status string) ([]Assessment, error)
	Delete(id uint) error
}

type RecommendQueryRepository interface {
	Create(query *RecommendQuery) error
	GetBySession(session string) ([]RecommendQuery, error)
	GetRecent(limit int) ([]RecommendQuery, error)
}

type SystemHealthRepository interface {
	UpdateServiceHealth(serviceName, status string, responseTime int, errorMsg string) error
	GetServiceHealth(serviceName string) (*SystemHealth, error)
	GetAllServicesHealth() ([]SystemHealth, error)
}

// TableName methods for custom table names
func (Assessment) TableName() string     { return "assessments" }
func (RecommendQuery) TableName() string { return "recommend_queries" }
func (SystemHealth) TableName() string   { return "system_health" }

// Model validation methods
func (a *Assessment) Validate() error {
	if a.URL == "" {
		return fmt.Errorf("assessment URL is required")
	}
	if a.Name == "" {
		return fmt.Errorf("assessment name is required")
	}
	validStatuses := map[string]bool{
		"pending":   true,
		"crawling":  true,
		"completed": true,
		"fallback":  true,
		"failed":    true,
	}
	if !validStatuses[a.CrawlStatus] {
		return fmt.Errorf("invalid crawl status: %s", a.CrawlStatus)
	}
	return nil
}

func (rq *RecommendQuery) Validate() error {
	if rq.QueryText == "" {
		return fmt.Errorf("query text is required")
	}
	if rq.ResponseTimeMs < 0 {
		return fmt.Errorf("response time cannot be negative")
	}
	return nil
}

// GORM hooks
func (a *Assessment) BeforeCreate(tx *gorm.DB) error {
	return a.Validate()
}

func (a *Assessment) BeforeUpdate(tx *gorm.DB) error {
	return a.Validate()
}

func (rq *RecommendQuery) BeforeCreate(tx *gorm.DB) error {
	return rq.Validate()
}
