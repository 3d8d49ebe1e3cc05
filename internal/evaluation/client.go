package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/models"
)

// APIClient talks to a running recommendation server over HTTP, the same
// path external callers use.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAPIClient(baseURL string, logger *logrus.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// CheckHealth verifies the server answers before an evaluation run starts.
func (c *APIClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// GetRecommendations returns the recommended URLs for one query, in rank
// order.
func (c *APIClient) GetRecommendations(ctx context.Context, query string) ([]string, error) {
	body, err := json.Marshal(models.RecommendRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recommend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommend returned HTTP %d", resp.StatusCode)
	}

	var response models.RecommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	urls := make([]string, 0, len(response.RecommendedAssessments))
	for _, rec := range response.RecommendedAssessments {
		if rec.URL != "" {
			urls = append(urls, rec.URL)
		}
	}
	return urls, nil
}
