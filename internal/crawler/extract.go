package crawler

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BrowserWarningMarker appears on pages served to clients the catalog site
// considers outdated. Such a response carries no product data.
const BrowserWarningMarker = "We recommend upgrading to a modern browser"

// Product is the extracted view of one catalog page. TestTypes is the
// inferred category list; the remaining support fields are filled with
// catalog defaults until richer page data is available.
type Product struct {
	URL             string
	Name            string
	Description     string
	TestTypes       []string
	DurationMinutes int
	AdaptiveSupport string
	RemoteSupport   string
	Fallback        bool
}

var (
	nameSelectors = []string{
		"h1.product-title__heading",
		"h1.product-header__title",
		`h1[data-testid="product-title"]`,
		".product-title h1",
		".page-title h1",
		"h1",
	}

	descriptionSelectors = []string{
		".product-description__text",
		".product-overview",
		".product-details",
		".description",
		".overview",
	}

	contentSelectors = []string{".main-content", ".content", "main", "article"}

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// ExtractProduct pulls name, description and inferred test types from a
// parsed product page. Every field degrades through fallback strategies so
// a partially broken page still yields a usable record.
func ExtractProduct(doc *goquery.Document, url string) Product {
	name := extractName(doc, url)
	description := extractDescription(doc)
	testTypes := inferTestTypes(doc.Text(), description)

	return Product{
		URL:             url,
		Name:            name,
		Description:     description,
		TestTypes:       testTypes,
		DurationMinutes: 0,
		AdaptiveSupport: "No",
		RemoteSupport:   "Yes",
	}
}

// FallbackProduct builds a record from the URL alone, for pages that could
// not be fetched or parsed.
func FallbackProduct(url string) Product {
	name := nameFromSlug(url)
	testTypes := inferTestTypesFromURL(url, name)

	var description strings.Builder
	description.WriteString(fmt.Sprintf("%s assessment. ", name))
	for _, testType := range testTypes {
		switch testType {
		case "Knowledge & Skills":
			description.WriteString("Tests technical knowledge and practical skills. ")
		case "Personality & Behaviour":
			description.WriteString("Evaluates personality traits and behavioral competencies. ")
		case "Cognitive":
			description.WriteString("Measures cognitive abilities and reasoning skills. ")
		}
	}

	return Product{
		URL:             url,
		Name:            name,
		Description:     strings.TrimSpace(description.String()),
		TestTypes:       testTypes,
		DurationMinutes: 0,
		AdaptiveSupport: "No",
		RemoteSupport:   "Yes",
		Fallback:        true,
	}
}

// PageContent renders the text that gets embedded into the vector store.
func (p Product) PageContent() string {
	return fmt.Sprintf("Product Name: %s\nTest Type: %s\nDescription: %s",
		p.Name, p.TestTypeString(), p.Description)
}

// TestTypeString flattens the category list for storage.
func (p Product) TestTypeString() string {
	return strings.Join(p.TestTypes, ", ")
}

// Metadata is the attribute set mirrored into the vector store alongside
// the embedded content.
func (p Product) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"source":           p.URL,
		"url":              p.URL,
		"name":             p.Name,
		"description":      p.Description,
		"test_type":        p.TestTypeString(),
		"adaptive_support": p.AdaptiveSupport,
		"duration":         p.DurationMinutes,
		"remote_support":   p.RemoteSupport,
	}
}

// ContentHash identifies the extracted content for change detection.
func (p Product) ContentHash() string {
	hash := md5.Sum([]byte(p.PageContent()))
	return hex.EncodeToString(hash[:])
}

func extractName(doc *goquery.Document, url string) string {
	for _, selector := range nameSelectors {
		tag := doc.Find(selector).First()
		if tag.Length() == 0 {
			continue
		}
		name := cleanText(tag.Text())
		if len(name) > 3 {
			return name
		}
	}

	parts := strings.Split(url, "/")
	if len(parts) > 0 && parts[len(parts)-1] != "" {
		return titleCase(strings.ReplaceAll(parts[len(parts)-1], "-", " "))
	}
	return "Unknown Product"
}

func extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		tag := doc.Find(selector).First()
		if tag.Length() == 0 {
			continue
		}
		description := cleanText(tag.Text())
		if len(description) > 10 {
			return description
		}
	}

	if content, exists := doc.Find(`meta[name="description"]`).First().Attr("content"); exists {
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			return trimmed
		}
	}

	// Last resort: lead paragraphs of the main content area
	for _, selector := range contentSelectors {
		content := doc.Find(selector).First()
		if content.Length() == 0 {
			continue
		}

		var paragraphs []string
		content.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
			if text := cleanText(s.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
			return len(paragraphs) < 3
		})

		description := strings.Join(paragraphs, " ")
		if len(description) > 20 {
			return description
		}
	}

	return "No description available."
}

var (
	knowledgeIndicators   = []string{"java", "python", "programming", "coding", "technical", "skill", "knowledge", "aptitude", "ability"}
	personalityIndicators = []string{"personality", "behaviour", "behavior", "leadership", "communication", "teamwork", "motivation", "trait"}
	cognitiveIndicators   = []string{"cognitive", "reasoning", "logical", "numerical", "verbal", "intelligence"}

	urlKnowledgeIndicators   = []string{"java", "python", "javascript", "css", "html", "sql", "selenium", "drupal", "tableau", "excel"}
	urlPersonalityIndicators = []string{"personality", "opq", "leadership", "communication", "interpersonal", "sales"}
	urlCognitiveIndicators   = []string{"verify", "numerical", "verbal", "reasoning", "inductive"}
)

func inferTestTypes(pageText, description string) []string {
	text := strings.ToLower(description + " " + pageText)

	var testTypes []string
	if containsAny(text, knowledgeIndicators) {
		testTypes = append(testTypes, "Knowledge & Skills")
	}
	if containsAny(text, personalityIndicators) {
		testTypes = append(testTypes, "Personality & Behaviour")
	}
	if containsAny(text, cognitiveIndicators) {
		testTypes = append(testTypes, "Cognitive")
	}

	if len(testTypes) == 0 {
		testTypes = []string{"Assessment"}
	}
	return testTypes
}

func inferTestTypesFromURL(url, name string) []string {
	text := strings.ToLower(url + " " + name)

	var testTypes []string
	if containsAny(text, urlKnowledgeIndicators) {
		testTypes = append(testTypes, "Knowledge & Skills")
	}
	if containsAny(text, urlPersonalityIndicators) {
		testTypes = append(testTypes, "Personality & Behaviour")
	}
	if containsAny(text, urlCognitiveIndicators) {
		testTypes = append(testTypes, "Cognitive")
	}

	if len(testTypes) == 0 {
		testTypes = []string{"Assessment"}
	}
	return testTypes
}

// nameFromSlug recovers a readable product name from the catalog URL path,
// which has the shape .../view/<product-slug>/.
func nameFromSlug(url string) string {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	for i, part := range parts {
		if part != "view" || i+1 >= len(parts) {
			continue
		}

		slug := parts[i+1]
		name := strings.ReplaceAll(slug, "-", " ")
		name = strings.ReplaceAll(name, "%28", "(")
		name = strings.ReplaceAll(name, "%29", ")")
		name = strings.TrimSpace(strings.ReplaceAll(titleCase(name), "New", ""))
		if name != "" {
			return name
		}
		break
	}
	return "Catalog Assessment"
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func cleanText(text string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
