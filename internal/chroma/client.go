package chroma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client is a minimal REST client for a Chroma vector store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// Heartbeat checks that the Chroma server is reachable.
func (c *Client) Heartbeat() error {
	return c.makeRequest("GET", "/api/v1/heartbeat", nil, nil)
}

// GetOrCreateCollection resolves a collection name to its server-side ID,
// creating the collection when missing.
func (c *Client) GetOrCreateCollection(name string) (*Collection, error) {
	req := CreateCollectionRequest{
		Name:        name,
		GetOrCreate: true,
		Metadata:    map[string]interface{}{"hnsw:space": "cosine"},
	}

	var collection Collection
	err := c.makeRequest("POST", "/api/v1/collections", req, &collection)
	if err != nil {
		return nil, err
	}
	return &collection, nil
}

// Add upserts embedded documents into a collection.
func (c *Client) Add(collectionID string, req AddRequest) error {
	endpoint := fmt.Sprintf("/api/v1/collections/%s/add", collectionID)
	return c.makeRequest("POST", endpoint, req, nil)
}

// Query runs a nearest-neighbor search and returns the raw column-oriented
// response.
func (c *Client) Query(collectionID string, req QueryRequest) (*QueryResponse, error) {
	endpoint := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)

	var response QueryResponse
	err := c.makeRequest("POST", endpoint, req, &response)
	return &response, err
}

// DeleteCollection drops a collection and all of its documents.
func (c *Client) DeleteCollection(name string) error {
	endpoint := fmt.Sprintf("/api/v1/collections/%s", name)
	return c.makeRequest("DELETE", endpoint, nil, nil)
}

func (c *Client) makeRequest(method, endpoint string, payload interface{}, result interface{}) error {
	url := c.baseURL + endpoint

	var body io.Reader
	var contentLength int

	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
		contentLength = len(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"has_body": payload != nil,
		"size":     contentLength,
	}).Debug("Making Chroma API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           url,
		"response_size": len(responseBody),
	}).Debug("Chroma API response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chroma request failed with status %d: %s", resp.StatusCode, string(responseBody))
	}

	if result != nil && len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
