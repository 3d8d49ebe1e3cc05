package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentiq/recommender/internal/chroma"
)

type fakeEmbedder struct {
	err   error
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []float64{0.1, 0.2, 0.3}, nil
}

type fakeSource struct {
	docs []chroma.Document
	err  error
}

func (f *fakeSource) QueryCandidates(ctx context.Context, embedding []float64, count int) ([]chroma.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func catalogDoc(id, url, name string) chroma.Document {
	return chroma.Document{
		ID: id,
		Metadata: map[string]interface{}{
			"url":              url,
			"name":             name,
			"description":      name + " assessment",
			"duration":         30,
			"test_type":        "Knowledge & Skills",
			"adaptive_support": "No",
			"remote_support":   "Yes",
		},
	}
}

func TestRecommend_DedupesAndCaps(t *testing.T) {
	docs := make([]chroma.Document, 0, 15)
	for i := 0; i < 15; i++ {
		url := fmt.Sprintf("https://example.com/product/%d", i%12)
		docs = append(docs, catalogDoc(fmt.Sprintf("doc-%d", i), url, fmt.Sprintf("Test %d", i)))
	}

	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: docs}, 20, testLogger())
	recs := svc.Recommend(context.Background(), "java developer")

	assert.Len(t, recs, 10)
	seen := make(map[string]bool)
	for _, rec := range recs {
		assert.False(t, seen[rec.URL], "duplicate url %s", rec.URL)
		seen[rec.URL] = true
	}
}

func TestRecommend_MetadataDefaults(t *testing.T) {
	docs := []chroma.Document{
		{ID: "bare-doc", Metadata: map[string]interface{}{}},
	}

	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: docs}, 20, testLogger())
	recs := svc.Recommend(context.Background(), "anything")

	assert.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, "Unknown Name", rec.Name)
	assert.Equal(t, "bare-doc", rec.URL)
	assert.Equal(t, "No description available.", rec.Description)
	assert.Equal(t, 0, rec.Duration)
	assert.Equal(t, "No", rec.AdaptiveSupport)
	assert.Equal(t, "Yes", rec.RemoteSupport)
	assert.Equal(t, []string{"Unknown"}, rec.TestType)
}

func TestRecommend_SplitsTestTypes(t *testing.T) {
	doc := catalogDoc("doc-1", "https://example.com/p/1", "Verify G+")
	doc.Metadata["test_type"] = "Knowledge & Skills, Personality & Behavior"

	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: []chroma.Document{doc}}, 20, testLogger())
	recs := svc.Recommend(context.Background(), "cognitive test")

	assert.Len(t, recs, 1)
	assert.Equal(t, []string{"Knowledge & Skills", "Personality & Behavior"}, recs[0].TestType)
}

func TestRecommend_DropsEmptyTestTypeSegments(t *testing.T) {
	doc := catalogDoc("doc-1", "https://example.com/p/1", "Mixed Battery")
	doc.Metadata["test_type"] = "Technical, , Cognitive"

	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: []chroma.Document{doc}}, 20, testLogger())
	recs := svc.Recommend(context.Background(), "cognitive test")

	require.Len(t, recs, 1)
	assert.Equal(t, []string{"Technical", "Cognitive"}, recs[0].TestType)
}

func TestRecommend_EmbedderFailureIsFailOpen(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("upstream down")}
	svc := NewRecommendService(embedder, &fakeSource{}, 20, testLogger())

	recs := svc.Recommend(context.Background(), "java developer")

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	// ranked attempt plus fallback attempt
	assert.Equal(t, 2, embedder.calls)
}

func TestRecommend_SourceFailureFallsBackThenEmpty(t *testing.T) {
	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{err: errors.New("vector store unavailable")}, 20, testLogger())

	recs := svc.Recommend(context.Background(), "sales manager")

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_Deterministic(t *testing.T) {
	docs := []chroma.Document{
		catalogDoc("a", "https://example.com/p/a", "Java Programming Test"),
		catalogDoc("b", "https://example.com/p/b", "Python Programming Test"),
		catalogDoc("c", "https://example.com/p/c", "Team Leadership Survey"),
	}
	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: docs}, 20, testLogger())

	first := svc.Recommend(context.Background(), "senior java developer, 30 minutes")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, svc.Recommend(context.Background(), "senior java developer, 30 minutes"))
	}
}

func TestRecommend_RelevantTypeRanksFirst(t *testing.T) {
	// same retrieval order, but the leadership survey matches the query
	// domain and should be re-ranked above the unrelated clerical test
	clerical := catalogDoc("a", "https://example.com/p/a", "Data Entry Clerical Test")
	clerical.Metadata["test_type"] = "Simulations"
	clerical.Metadata["description"] = "Typing and filing accuracy."
	leadership := catalogDoc("b", "https://example.com/p/b", "Leadership Judgement Test")
	leadership.Metadata["test_type"] = "Competencies"
	leadership.Metadata["description"] = "Management and leadership judgement scenarios."

	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{docs: []chroma.Document{clerical, leadership}}, 20, testLogger())
	recs := svc.Recommend(context.Background(), "leadership assessment for a manager")

	assert.Equal(t, "https://example.com/p/b", recs[0].URL)
}

func TestDetectedDomains(t *testing.T) {
	svc := NewRecommendService(&fakeEmbedder{}, &fakeSource{}, 20, testLogger())

	domains := svc.DetectedDomains("java developer with sales experience")
	assert.Equal(t, []string{"programming", "sales"}, domains)
}
