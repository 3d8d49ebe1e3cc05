package chroma

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Service exposes the vector store at the catalog level: assessments go in
// with embeddings, ranked candidate documents come out. The collection is
// resolved lazily on first use; the mutex keeps that resolution safe when
// the first requests after boot arrive concurrently.
type Service struct {
	client     *Client
	collection string
	logger     *logrus.Logger

	mu           sync.Mutex
	collectionID string
}

func NewService(client *Client, collection string, logger *logrus.Logger) *Service {
	return &Service{
		client:     client,
		collection: collection,
		logger:     logger,
	}
}

func (s *Service) ensureCollection() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionID != "" {
		return s.collectionID, nil
	}

	collection, err := s.client.GetOrCreateCollection(s.collection)
	if err != nil {
		return "", fmt.Errorf("failed to resolve collection %s: %w", s.collection, err)
	}

	s.collectionID = collection.ID
	s.logger.WithFields(logrus.Fields{
		"collection": s.collection,
		"id":         collection.ID,
	}).Debug("Chroma collection resolved")
	return collection.ID, nil
}

// AddAssessment stores one embedded catalog document, keyed by its URL.
func (s *Service) AddAssessment(ctx context.Context, url, content string, embedding []float64, metadata map[string]interface{}) error {
	collectionID, err := s.ensureCollection()
	if err != nil {
		return err
	}

	req := AddRequest{
		IDs:        []string{url},
		Embeddings: [][]float64{embedding},
		Metadatas:  []map[string]interface{}{metadata},
		Documents:  []string{content},
	}

	return s.client.AddWithRetry(ctx, collectionID, req)
}

// QueryCandidates returns up to count documents ordered most-similar first.
// Single best-effort call, no retries: a failure here is absorbed by the
// caller's fail-open path.
func (s *Service) QueryCandidates(ctx context.Context, embedding []float64, count int) ([]Document, error) {
	collectionID, err := s.ensureCollection()
	if err != nil {
		return nil, err
	}

	req := QueryRequest{
		QueryEmbeddings: [][]float64{embedding},
		NResults:        count,
		Include:         []string{"metadatas", "documents", "distances"},
	}

	response, err := s.client.Query(collectionID, req)
	if err != nil {
		return nil, err
	}

	if len(response.IDs) == 0 {
		return nil, nil
	}

	ids := response.IDs[0]
	documents := make([]Document, 0, len(ids))
	for i, id := range ids {
		doc := Document{ID: id}
		if len(response.Documents) > 0 && i < len(response.Documents[0]) {
			doc.Content = response.Documents[0][i]
		}
		if len(response.Metadatas) > 0 && i < len(response.Metadatas[0]) {
			doc.Metadata = response.Metadatas[0][i]
		}
		if len(response.Distances) > 0 && i < len(response.Distances[0]) {
			doc.Distance = response.Distances[0][i]
		}
		documents = append(documents, doc)
	}

	s.logger.WithField("candidates", len(documents)).Debug("Chroma query completed")
	return documents, nil
}

// Reset drops and recreates the collection. Used by the crawler before a
// full rebuild.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.client.DeleteCollection(s.collection); err != nil {
		s.logger.WithError(err).Debug("Collection delete failed, likely missing")
	}

	s.mu.Lock()
	s.collectionID = ""
	s.mu.Unlock()

	_, err := s.ensureCollection()
	return err
}
