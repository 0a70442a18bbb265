package match

import (
	"slices"
	"strings"
)

// MinScore is the similarity below which a key is not worth suggesting.
const MinScore = 0.6

// Candidate is an input key scored against a wanted name.
type Candidate struct {
	Key   string
	Score float64
}

// Rank scores every key against name and returns those reaching MinScore,
// best first; ties are broken alphabetically.
func Rank(name string, keys []string) []Candidate {
	var res []Candidate

	for _, key := range keys {
		score := KeySimilarity(name, key)
		if score >= MinScore {
			res = append(res, Candidate{Key: key, Score: score})
		}
	}

	slices.SortFunc(res, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}

		return strings.Compare(a.Key, b.Key)
	})

	return res
}

// Suggest returns up to n keys that most likely are misspellings of name.
func Suggest(name string, keys []string, n int) []string {
	ranked := Rank(name, keys)
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	var res []string
	for _, c := range ranked {
		res = append(res, c.Key)
	}

	return res
}
