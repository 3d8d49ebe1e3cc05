package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContext_SkillDetection(t *testing.T) {
	ctx := ExtractContext("Senior Java developer, 30 minute test")

	require.Contains(t, ctx.Skills, "programming")
	match := ctx.Skills["programming"]

	// "java" scores the full weight, "developer" scores the synonym weight
	assert.InDelta(t, 3.5+3.5*0.7, match.Score, 1e-9)
	assert.Contains(t, match.Terms, "java")
	assert.Contains(t, match.Terms, "developer")
	assert.Equal(t, []string{"Technical"}, match.AssessmentTypes)

	assert.Equal(t, "senior", ctx.Seniority)
	require.NotNil(t, ctx.PreferredDuration)
	assert.Equal(t, 30, *ctx.PreferredDuration)
	assert.Equal(t, 6, ctx.QueryWords)
}

func TestExtractContext_EmptyQuery(t *testing.T) {
	ctx := ExtractContext("")

	assert.Empty(t, ctx.Skills)
	assert.Empty(t, ctx.Seniority)
	assert.Nil(t, ctx.PreferredDuration)
	assert.Zero(t, ctx.QueryWords)
}

func TestExtractContext_SeniorityPriorityOrder(t *testing.T) {
	// Both "junior" and "senior" appear; the earlier level in the fixed
	// priority order must win and only one level is ever reported.
	ctx := ExtractContext("junior or senior sales role")
	assert.Equal(t, "entry", ctx.Seniority)

	ctx = ExtractContext("senior executive director")
	assert.Equal(t, "senior", ctx.Seniority)
}

func TestExtractContext_DurationNormalization(t *testing.T) {
	tests := []struct {
		query   string
		minutes int
	}{
		{"assessment under 45 min", 45},
		{"a 30 minute test", 30},
		{"takes 1 hour to finish", 60},
		{"roughly 2 hr total", 120},
		{"90minute marathon", 90},
	}

	for _, tt := range tests {
		ctx := ExtractContext(tt.query)
		require.NotNil(t, ctx.PreferredDuration, "query %q", tt.query)
		assert.Equal(t, tt.minutes, *ctx.PreferredDuration, "query %q", tt.query)
	}
}

func TestExtractContext_NoDuration(t *testing.T) {
	ctx := ExtractContext("python developer assessment")
	assert.Nil(t, ctx.PreferredDuration)
}

func TestExtractContext_MultipleDomains(t *testing.T) {
	ctx := ExtractContext("data analyst with sql and teamwork skills")

	assert.Contains(t, ctx.Skills, "data_science")
	assert.Contains(t, ctx.Skills, "programming")
	assert.Contains(t, ctx.Skills, "collaboration")
	assert.NotContains(t, ctx.Skills, "creative")
}

func TestExtractContext_CaseInsensitive(t *testing.T) {
	lower := ExtractContext("java programming test")
	upper := ExtractContext("JAVA Programming TEST")

	require.Contains(t, upper.Skills, "programming")
	assert.InDelta(t, lower.Skills["programming"].Score, upper.Skills["programming"].Score, 1e-9)
}
