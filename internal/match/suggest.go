package match

import "sort"

// suggestThreshold is the minimum normalized similarity for a suggestion.
const suggestThreshold = 0.5

// Suggestion is a known name ranked against a misspelled one.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every known name against name, best first. Ties are broken
// alphabetically so results are deterministic.
func Rank(name string, known []string) []Suggestion {
	ranked := make([]Suggestion, 0, len(known))
	for _, k := range known {
		ranked = append(ranked, Suggestion{Name: k, Score: NormalizedLevenshteinScore(name, k)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}

		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}

// Suggest returns up to limit known names close enough to name to be a
// plausible typo.
func Suggest(name string, known []string, limit int) []string {
	var out []string

	for _, s := range Rank(name, known) {
		if len(out) >= limit || s.Score < suggestThreshold {
			break
		}

		out = append(out, s.Name)
	}

	return out
}
