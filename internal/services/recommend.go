package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/talentiq/recommender/internal/chroma"
	"github.com/talentiq/recommender/internal/models"
	"github.com/talentiq/recommender/internal/ranking"
)

// MaxRecommendations bounds every response.
const MaxRecommendations = 10

// Embedder turns query text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// CandidateSource returns catalog documents ordered most-similar first.
type CandidateSource interface {
	QueryCandidates(ctx context.Context, embedding []float64, count int) ([]chroma.Document, error)
}

// RecommendService runs the keyword-semantic fusion pipeline: extract
// signals from the query, enhance it, retrieve candidates, re-rank them and
// assemble the response. Stateless across requests.
type RecommendService struct {
	embedder       Embedder
	source         CandidateSource
	candidateCount int
	logger         *logrus.Logger
}

func NewRecommendService(embedder Embedder, source CandidateSource, candidateCount int, logger *logrus.Logger) *RecommendService {
	if candidateCount <= 0 {
		candidateCount = 20
	}
	return &RecommendService{
		embedder:       embedder,
		source:         source,
		candidateCount: candidateCount,
		logger:         logger,
	}
}

type scoredDocument struct {
	doc   chroma.Document
	score float64
}

// Recommend is deliberately fail-open: every failure degrades, first to
// plain retrieval on the raw query, then to an empty result list. The
// caller always gets a well-formed response.
func (s *RecommendService) Recommend(ctx context.Context, query string) []models.Recommendation {
	queryContext := ranking.ExtractContext(query)

	detected := make([]string, 0, len(queryContext.Skills))
	for domain := range queryContext.Skills {
		detected = append(detected, domain)
	}
	sort.Strings(detected)

	s.logger.WithFields(logrus.Fields{
		"detected_domains": detected,
		"seniority":        queryContext.Seniority,
		"has_duration":     queryContext.PreferredDuration != nil,
	}).Debug("Query context extracted")

	enhancedQuery := ranking.EnhanceQuery(query, queryContext)

	recommendations, err := s.recommendRanked(ctx, enhancedQuery, queryContext)
	if err == nil {
		return recommendations
	}

	s.logger.WithError(err).WithField("query", truncate(query, 70)).Error("Fusion pipeline failed, falling back to plain retrieval")

	recommendations, err = s.recommendPlain(ctx, query)
	if err != nil {
		s.logger.WithError(err).Error("Fallback retrieval failed, returning empty result")
		return []models.Recommendation{}
	}
	return recommendations
}

// DetectedDomains reports the skill domains found in a query, for analytics.
func (s *RecommendService) DetectedDomains(query string) []string {
	queryContext := ranking.ExtractContext(query)
	domains := make([]string, 0, len(queryContext.Skills))
	for domain := range queryContext.Skills {
		domains = append(domains, domain)
	}
	sort.Strings(domains)
	return domains
}

func (s *RecommendService) recommendRanked(ctx context.Context, enhancedQuery string, queryContext ranking.QueryContext) ([]models.Recommendation, error) {
	vector, err := s.embedder.Embed(ctx, enhancedQuery)
	if err != nil {
		return nil, err
	}

	docs, err := s.source.QueryCandidates(ctx, vector, s.candidateCount)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredDocument, 0, len(docs))
	for rank, doc := range docs {
		candidate := ranking.Candidate{
			Name:        stringField(doc.Metadata, "name"),
			Description: stringField(doc.Metadata, "description"),
			TestType:    stringField(doc.Metadata, "test_type"),
			Duration:    doc.Metadata["duration"],
		}
		score := ranking.RelevanceScore(candidate, queryContext, ranking.BaseScore(rank))
		scored = append(scored, scoredDocument{doc: doc, score: score})
	}

	// Stable sort: ties keep their retrieval rank order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	docs = docs[:0]
	for _, sd := range scored {
		docs = append(docs, sd.doc)
	}

	return assembleRecommendations(docs), nil
}

func (s *RecommendService) recommendPlain(ctx context.Context, query string) ([]models.Recommendation, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	docs, err := s.source.QueryCandidates(ctx, vector, s.candidateCount)
	if err != nil {
		return nil, err
	}

	return assembleRecommendations(docs), nil
}

// assembleRecommendations walks candidates in order, dropping duplicate
// URLs, and stops at the response cap.
func assembleRecommendations(docs []chroma.Document) []models.Recommendation {
	recommendations := make([]models.Recommendation, 0, MaxRecommendations)
	seen := make(map[string]bool)

	for _, doc := range docs {
		rec := recommendationFromMetadata(doc)
		if seen[rec.URL] {
			continue
		}
		seen[rec.URL] = true

		recommendations = append(recommendations, rec)
		if len(recommendations) >= MaxRecommendations {
			break
		}
	}

	return recommendations
}

// recommendationFromMetadata is the single place stored attributes are
// deserialized into the response shape, with fixed defaults for anything
// missing or malformed.
func recommendationFromMetadata(doc chroma.Document) models.Recommendation {
	meta := doc.Metadata

	url := stringField(meta, "url")
	if url == "" {
		url = doc.ID
	}

	return models.Recommendation{
		Name:            stringFieldOr(meta, "name", "Unknown Name"),
		URL:             url,
		AdaptiveSupport: stringFieldOr(meta, "adaptive_support", "No"),
		Description:     stringFieldOr(meta, "description", "No description available."),
		Duration:        intField(meta, "duration"),
		RemoteSupport:   stringFieldOr(meta, "remote_support", "Yes"),
		TestType:        splitTestTypes(stringFieldOr(meta, "test_type", "Unknown")),
	}
}

func splitTestTypes(raw string) []string {
	parts := strings.Split(raw, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			types = append(types, trimmed)
		}
	}
	if len(types) == 0 {
		types = []string{"Unknown"}
	}
	return types
}

func stringField(meta map[string]interface{}, key string) string {
	if meta == nil {
		return ""
	}
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func stringFieldOr(meta map[string]interface{}, key, fallback string) string {
	if v := stringField(meta, key); v != "" {
		return v
	}
	return fallback
}

func intField(meta map[string]interface{}, key string) int {
	if meta == nil {
		return 0
	}
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		var n int
		for _, r := range strings.TrimSpace(v) {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
