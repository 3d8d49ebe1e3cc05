package ranking

import (
	"strconv"
	"strings"
)

// Fusion weights. Each term is capped by its weight before combination and
// the total is capped at 1.0.
const (
	semanticWeight    = 0.4
	skillWeight       = 0.35
	durationWeight    = 0.15
	seniorityWeight   = 0.10
	doubleMatchFactor = 1.5
)

// Candidate carries the stored attributes of one retrieved item that the
// scorer inspects. Duration is the raw metadata value; anything that cannot
// be read as an integer contributes nothing to the duration term.
type Candidate struct {
	Name        string
	Description string
	TestType    string
	Duration    interface{}
}

// BaseScore maps a candidate's retrieval rank to a synthetic semantic score,
// decaying linearly with rank and floored at zero.
func BaseScore(rank int) float64 {
	score := 1.0 - 0.05*float64(rank)
	if score < 0 {
		return 0
	}
	return score
}

// RelevanceScore fuses the rank-derived semantic score with lexical skill,
// duration and seniority signals into a single score in [0, 1]. It
// compensates for vector similarity missing exact skill or category terms.
func RelevanceScore(candidate Candidate, ctx QueryContext, semanticScore float64) float64 {
	total := semanticScore * semanticWeight

	docText := strings.ToLower(candidate.Name + " " + candidate.Description + " " + candidate.TestType)

	// Skill matching term
	skillScore := 0.0
	totalSkillWeight := 0.0

	for name, match := range ctx.Skills {
		domain := skillDomains[name]

		typeMatch := false
		for _, assessType := range domain.AssessmentTypes {
			if strings.Contains(docText, strings.ToLower(assessType)) {
				typeMatch = true
				break
			}
		}

		termMatch := containsAny(docText, domain.Keywords) || containsAny(docText, domain.Synonyms)

		if typeMatch || termMatch {
			multiplier := 1.0
			if typeMatch && termMatch {
				multiplier = doubleMatchFactor
			}
			skillScore += match.Score * multiplier
		}

		totalSkillWeight += match.Score
	}

	if totalSkillWeight > 0 {
		total += (skillScore / totalSkillWeight) * skillWeight
	}

	// Duration closeness term
	if ctx.PreferredDuration != nil {
		if duration, ok := parseDuration(candidate.Duration); ok {
			diff := float64(duration - *ctx.PreferredDuration)
			if diff < 0 {
				diff = -diff
			}
			durationScore := 1.0 - diff/60.0
			if durationScore < 0 {
				durationScore = 0
			}
			total += durationScore * durationWeight
		}
	}

	// Seniority term
	if ctx.Seniority != "" && containsAny(docText, seniorityIndicators(ctx.Seniority)) {
		total += seniorityWeight
	}

	if total > 1.0 {
		return 1.0
	}
	return total
}

// parseDuration reads a raw metadata duration value as whole minutes.
func parseDuration(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
