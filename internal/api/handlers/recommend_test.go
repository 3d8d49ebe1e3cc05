package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentiq/recommender/internal/chroma"
	"github.com/talentiq/recommender/internal/models"
	"github.com/talentiq/recommender/internal/services"
)

type stubEmbedder struct{ err error }

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float64{0.1, 0.2}, nil
}

type stubSource struct {
	docs []chroma.Document
	err  error
}

func (s *stubSource) QueryCandidates(ctx context.Context, embedding []float64, count int) ([]chroma.Document, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.docs, nil
}

func newTestRouter(embedder services.Embedder, source services.CandidateSource) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := services.NewRecommendService(embedder, source, 20, logger)
	handler := NewRecommendHandler(svc, nil, nil, logger)

	router := gin.New()
	router.POST("/recommend", handler.HandleRecommend)
	return router
}

func postRecommend(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleRecommend_ReturnsResults(t *testing.T) {
	docs := []chroma.Document{
		{ID: "a", Metadata: map[string]interface{}{
			"url":       "https://example.com/view/java-test/",
			"name":      "Java Programming Test",
			"test_type": "Knowledge & Skills",
			"duration":  40,
		}},
	}
	router := newTestRouter(&stubEmbedder{}, &stubSource{docs: docs})

	recorder := postRecommend(t, router, `{"query": "java developer"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.RecommendResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Len(t, response.RecommendedAssessments, 1)
	assert.Equal(t, "Java Programming Test", response.RecommendedAssessments[0].Name)
	assert.Equal(t, 40, response.RecommendedAssessments[0].Duration)
}

func TestHandleRecommend_PayloadShape(t *testing.T) {
	docs := []chroma.Document{
		{ID: "a", Metadata: map[string]interface{}{"url": "https://example.com/view/a/"}},
	}
	router := newTestRouter(&stubEmbedder{}, &stubSource{docs: docs})

	recorder := postRecommend(t, router, `{"query": "java developer"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	// The contract route carries exactly one top-level key.
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	assert.Contains(t, payload, "recommended_assessments")
	assert.Len(t, payload, 1)
}

func TestHandleRecommend_EmptyQueryRejected(t *testing.T) {
	router := newTestRouter(&stubEmbedder{}, &stubSource{})

	assert.Equal(t, http.StatusBadRequest, postRecommend(t, router, `{"query": "   "}`).Code)
	assert.Equal(t, http.StatusBadRequest, postRecommend(t, router, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, postRecommend(t, router, `not json`).Code)
}

func TestHandleRecommend_UpstreamFailureIsFailOpen(t *testing.T) {
	router := newTestRouter(&stubEmbedder{err: errors.New("embeddings down")}, &stubSource{})

	recorder := postRecommend(t, router, `{"query": "sales manager"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var response models.RecommendResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Empty(t, response.RecommendedAssessments)
}

func TestHandleRecommend_QueryTooLong(t *testing.T) {
	router := newTestRouter(&stubEmbedder{}, &stubSource{})

	long := strings.Repeat("a", maxQueryLength+1)
	recorder := postRecommend(t, router, `{"query": "`+long+`"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
