package ranking

// SkillDomain is one named cluster of keywords representing a skill or role
// category. Keywords score the full domain weight, synonyms 0.7x. The
// assessment types are the catalog category tags associated with the domain.
type SkillDomain struct {
	Keywords        []string
	Synonyms        []string
	Weight          float64
	AssessmentTypes []string
}

// SeniorityLevel is one rung of the experience ladder with the query
// substrings that indicate it.
type SeniorityLevel struct {
	Name       string
	Indicators []string
}

// domainOrder fixes the iteration order over skillDomains. Detection itself
// is order-independent, but query enhancement output must be deterministic.
var domainOrder = []string{
	"programming",
	"data_science",
	"leadership",
	"sales",
	"creative",
	"technical_support",
	"collaboration",
}

var skillDomains = map[string]SkillDomain{
	"programming": {
		Keywords:        []string{"java", "python", "javascript", "js", "sql", "c++", "php", "ruby", "go", "rust"},
		Synonyms:        []string{"coding", "programming", "software development", "development", "developer"},
		Weight:          3.5,
		AssessmentTypes: []string{"Technical"},
	},
	"data_science": {
		Keywords:        []string{"data", "analytics", "analyst", "statistics", "machine learning", "ml", "ai"},
		Synonyms:        []string{"data analysis", "data scientist", "statistical analysis", "artificial intelligence"},
		Weight:          3.0,
		AssessmentTypes: []string{"Technical", "Analytical"},
	},
	"leadership": {
		Keywords:        []string{"leader", "leadership", "manager", "management", "ceo", "coo", "director"},
		Synonyms:        []string{"lead", "supervise", "executive", "head", "senior management"},
		Weight:          2.8,
		AssessmentTypes: []string{"Leadership", "Behavioral"},
	},
	"sales": {
		Keywords:        []string{"sales", "selling", "revenue", "business development", "account management"},
		Synonyms:        []string{"commercial", "client relations", "customer service", "account executive"},
		Weight:          2.5,
		AssessmentTypes: []string{"Behavioral", "Sales"},
	},
	"creative": {
		Keywords:        []string{"creative", "design", "content", "writer", "marketing", "brand"},
		Synonyms:        []string{"creativity", "copywriter", "content creation", "graphic design"},
		Weight:          2.3,
		AssessmentTypes: []string{"Creative", "Behavioral"},
	},
	"technical_support": {
		Keywords:        []string{"support", "technical support", "troubleshooting", "help desk"},
		Synonyms:        []string{"customer support", "technical assistance", "it support"},
		Weight:          2.0,
		AssessmentTypes: []string{"Technical", "Behavioral"},
	},
	"collaboration": {
		Keywords:        []string{"collaborate", "teamwork", "team", "communication", "interpersonal"},
		Synonyms:        []string{"cooperation", "team player", "working together", "group work"},
		Weight:          1.8,
		AssessmentTypes: []string{"Behavioral"},
	},
}

// seniorityLevels is priority-ordered: the first level with a matching
// indicator wins and no further levels are considered.
var seniorityLevels = []SeniorityLevel{
	{Name: "entry", Indicators: []string{"entry", "junior", "graduate", "new", "fresh", "0-1", "0-2", "intern"}},
	{Name: "mid", Indicators: []string{"mid", "intermediate", "2-4", "3-5", "experienced"}},
	{Name: "senior", Indicators: []string{"senior", "lead", "principal", "5+", "5-7", "7+", "expert"}},
	{Name: "executive", Indicators: []string{"executive", "director", "vp", "ceo", "coo", "head of"}},
}

// seniorityIndicators returns the indicator substrings for a level name.
func seniorityIndicators(level string) []string {
	for _, l := range seniorityLevels {
		if l.Name == level {
			return l.Indicators
		}
	}
	return nil
}

// Domain returns the definition of a named skill domain.
func Domain(name string) (SkillDomain, bool) {
	d, ok := skillDomains[name]
	return d, ok
}
