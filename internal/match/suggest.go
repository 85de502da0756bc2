package match

import (
	"slices"
	"strings"
)

// DefaultMinScore is the similarity below which a candidate is not suggested.
const DefaultMinScore = 0.5

type scored struct {
	name  string
	score float64
}

// Suggest returns up to limit candidates similar to name, best first. Ties are
// broken alphabetically so output is stable. Candidates scoring under
// DefaultMinScore are dropped; a candidate whose normalized form equals
// name's always qualifies.
func Suggest(name string, candidates []string, limit int) []string {
	if limit <= 0 || name == "" {
		return nil
	}

	var ranked []scored

	for _, c := range candidates {
		if c == name {
			continue
		}

		s := NameSimilarity(name, c)
		if s < DefaultMinScore {
			continue
		}

		ranked = append(ranked, scored{name: c, score: s})
	}

	slices.SortFunc(ranked, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return strings.Compare(a.name, b.name)
		}
	})

	out := make([]string, 0, min(limit, len(ranked)))
	for _, r := range ranked {
		if len(out) == limit {
			break
		}

		out = append(out, r.name)
	}

	return out
}
