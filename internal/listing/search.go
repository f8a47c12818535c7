package listing

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Closest returns the index of the listing whose ID best matches query.
// A prefix match wins outright; otherwise the smallest edit distance is used.
func Closest(items []Listing, query string) (int, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(items) == 0 {
		return -1, false
	}
	best, bestDist := -1, 0
	for i, it := range items {
		id := strings.ToLower(it.ID)
		if strings.HasPrefix(id, query) {
			return i, true
		}
		d := levenshtein.ComputeDistance(id, query)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
