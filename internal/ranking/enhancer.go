package ranking

import "strings"

// Domains scoring above this are confident enough to expand the query with.
const enhanceConfidenceThreshold = 2.0

const maxSynonymsPerDomain = 2

// EnhanceQuery appends synonym and assessment-type terms for every
// confidently detected domain to the original query. Purely additive: the
// original text always comes first, unmodified. Deterministic for a given
// query because domains are visited in fixed table order.
func EnhanceQuery(original string, ctx QueryContext) string {
	parts := []string{original}

	for _, name := range domainOrder {
		match, ok := ctx.Skills[name]
		if !ok || match.Score <= enhanceConfidenceThreshold {
			continue
		}

		domain := skillDomains[name]
		synonyms := domain.Synonyms
		if len(synonyms) > maxSynonymsPerDomain {
			synonyms = synonyms[:maxSynonymsPerDomain]
		}
		parts = append(parts, synonyms...)
		parts = append(parts, domain.AssessmentTypes...)
	}

	return strings.Join(parts, " ")
}
