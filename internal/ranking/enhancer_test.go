package ranking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceQuery_AppendsConfidentDomainTerms(t *testing.T) {
	query := "java developer wanted"
	ctx := ExtractContext(query)

	enhanced := EnhanceQuery(query, ctx)

	assert.True(t, strings.HasPrefix(enhanced, query), "original query must lead unmodified")
	assert.Contains(t, enhanced, "coding")
	assert.Contains(t, enhanced, "programming")
	assert.Contains(t, enhanced, "Technical")
	// Only the top two synonyms are appended
	assert.NotContains(t, enhanced, "software development")
}

func TestEnhanceQuery_SkipsLowConfidenceDomains(t *testing.T) {
	// "team" alone scores 1.8, below the 2.0 confidence threshold.
	query := "team exercise"
	ctx := ExtractContext(query)
	assert.Contains(t, ctx.Skills, "collaboration")

	enhanced := EnhanceQuery(query, ctx)
	assert.Equal(t, query, enhanced)
}

func TestEnhanceQuery_NoDetectedSkills(t *testing.T) {
	query := "something completely unrelated"
	enhanced := EnhanceQuery(query, ExtractContext(query))
	assert.Equal(t, query, enhanced)
}

func TestEnhanceQuery_Deterministic(t *testing.T) {
	query := "senior java developer and sales manager with leadership experience"
	ctx := ExtractContext(query)

	first := EnhanceQuery(query, ctx)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, EnhanceQuery(query, ExtractContext(query)))
	}
}
