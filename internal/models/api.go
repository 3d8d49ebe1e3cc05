package models

type RecommendRequest struct {
	Query string `json:"query" binding:"required"`
}

type Recommendation struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	AdaptiveSupport string   `json:"adaptive_support"`
	Description     string   `json:"description"`
	Duration        int      `json:"duration"`
	RemoteSupport   string   `json:"remote_support"`
	TestType        []string `json:"test_type"`
}

type RecommendResponse struct {
	RecommendedAssessments []Recommendation `json:"recommended_assessments"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
