package controller

import "github.com/agnivade/levenshtein"

// nearTickerMax is the widest edit distance still offered as a suggestion.
const nearTickerMax = 2

// NearestTicker returns the saved ticker closest to the input, or "" when
// nothing is within editing distance. Ties keep the earliest-saved ticker.
func NearestTicker(saved []string, input string) string {
	best, bestDist := "", nearTickerMax+1
	for _, t := range saved {
		if t == input {
			continue
		}
		if d := levenshtein.ComputeDistance(t, input); d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}
