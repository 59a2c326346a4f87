package recommend

import (
	"regexp"
	"strings"
)

// synonymRules maps natural-language intent words onto category substrings.
// The table is deliberately small; queries it misses simply fall through to
// the substring checks. Expanding it changes observable filtering behavior,
// so new rules need care.
var synonymRules = []struct {
	query    *regexp.Regexp
	category *regexp.Regexp
}{
	{regexp.MustCompile(`\b(food|eat|hungry|meal|dining|restaurant)\b`), regexp.MustCompile(`restaurant`)},
	{regexp.MustCompile(`\b(restaurant|cafe|diner)\b`), regexp.MustCompile(`food`)},
	{regexp.MustCompile(`\b(shop|shopping|buy|store)\b`), regexp.MustCompile(`\b(fashion|electronics|retail)\b`)},
	{regexp.MustCompile(`\b(haircut|hair|barber)\b`), regexp.MustCompile(`beauty`)},
	{regexp.MustCompile(`\b(fix|repair|service)\b`), regexp.MustCompile(`services`)},
	{regexp.MustCompile(`\b(doctor|medical|health|pharmacy)\b`), regexp.MustCompile(`health`)},
}

// MatchesCategories reports whether a free-text query plausibly targets any
// of the given category labels. A category matches when either text contains
// the other, or a synonym rule links the query's wording to the category.
func MatchesCategories(query string, categories []string) bool {
	queryLower := strings.ToLower(query)
	for _, category := range categories {
		categoryLower := strings.ToLower(category)
		if strings.Contains(categoryLower, queryLower) || strings.Contains(queryLower, categoryLower) {
			return true
		}
		for _, rule := range synonymRules {
			if rule.query.MatchString(queryLower) && rule.category.MatchString(categoryLower) {
				return true
			}
		}
	}
	return false
}
