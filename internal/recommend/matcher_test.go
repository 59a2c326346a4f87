package recommend

import "testing"

func TestMatchesCategories(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		categories []string
		want       bool
	}{
		{
			name:       "direct substring query in category",
			query:      "restaurant",
			categories: []string{"Fine Dining Restaurant"},
			want:       true,
		},
		{
			name:       "direct substring category in query",
			query:      "I am looking for a good cafe nearby",
			categories: []string{"Cafe"},
			want:       true,
		},
		{
			name:       "hungry maps to restaurant",
			query:      "I'm hungry",
			categories: []string{"Restaurant"},
			want:       true,
		},
		{
			name:       "food maps to restaurant category",
			query:      "I want food",
			categories: []string{"Fine Dining Restaurant"},
			want:       true,
		},
		{
			name:       "food does not match electronics",
			query:      "I want food",
			categories: []string{"Electronics"},
			want:       false,
		},
		{
			name:       "haircut maps to beauty",
			query:      "where can I get a haircut",
			categories: []string{"Beauty"},
			want:       true,
		},
		{
			name:       "shopping maps to fashion",
			query:      "shopping for clothes",
			categories: []string{"Fashion"},
			want:       true,
		},
		{
			name:       "repair maps to services",
			query:      "need to fix my phone",
			categories: []string{"Services"},
			want:       true,
		},
		{
			name:       "pharmacy maps to health",
			query:      "closest pharmacy",
			categories: []string{"Health"},
			want:       true,
		},
		{
			name:       "case insensitive",
			query:      "RESTAURANT",
			categories: []string{"restaurant"},
			want:       true,
		},
		{
			name:       "no match at all",
			query:      "quantum computing",
			categories: []string{"Beauty", "Automotive"},
			want:       false,
		},
		{
			name:       "empty categories",
			query:      "food",
			categories: nil,
			want:       false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MatchesCategories(tc.query, tc.categories)
			if got != tc.want {
				t.Fatalf("MatchesCategories(%q, %v) = %v, want %v", tc.query, tc.categories, got, tc.want)
			}
		})
	}
}
