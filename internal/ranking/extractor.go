package ranking

import (
	"regexp"
	"strconv"
	"strings"
)

const synonymWeight = 0.7

var durationPattern = regexp.MustCompile(`(\d+)\s*(minute|min|hour|hr)`)

// SkillMatch records how strongly one domain matched the query.
type SkillMatch struct {
	Score           float64
	Terms           []string
	Weight          float64
	AssessmentTypes []string
}

// QueryContext is the per-request signal bundle extracted from a raw query.
// Absent signals are represented by empty/nil fields, never by an error.
type QueryContext struct {
	Skills            map[string]SkillMatch
	Seniority         string
	PreferredDuration *int
	QueryWords        int
}

// ExtractContext scans a free-text query for skill domains, seniority and
// duration preferences. Matching is case-insensitive substring containment
// against the fixed domain tables.
func ExtractContext(query string) QueryContext {
	queryLower := strings.ToLower(query)

	skills := make(map[string]SkillMatch)
	for _, name := range domainOrder {
		domain := skillDomains[name]

		score := 0.0
		var matched []string

		for _, keyword := range domain.Keywords {
			if strings.Contains(queryLower, keyword) {
				score += domain.Weight
				matched = append(matched, keyword)
			}
		}

		for _, synonym := range domain.Synonyms {
			if strings.Contains(queryLower, synonym) {
				score += domain.Weight * synonymWeight
				matched = append(matched, synonym)
			}
		}

		if score > 0 {
			skills[name] = SkillMatch{
				Score:           score,
				Terms:           matched,
				Weight:          domain.Weight,
				AssessmentTypes: domain.AssessmentTypes,
			}
		}
	}

	// First level in priority order wins, even if later levels also match.
	seniority := ""
	for _, level := range seniorityLevels {
		if containsAny(queryLower, level.Indicators) {
			seniority = level.Name
			break
		}
	}

	var preferredDuration *int
	if m := durationPattern.FindStringSubmatch(queryLower); m != nil {
		value, err := strconv.Atoi(m[1])
		if err == nil {
			if !strings.Contains(m[2], "min") {
				value *= 60
			}
			preferredDuration = &value
		}
	}

	return QueryContext{
		Skills:            skills,
		Seniority:         seniority,
		PreferredDuration: preferredDuration,
		QueryWords:        len(strings.Fields(query)),
	}
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
