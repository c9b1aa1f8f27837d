package identity

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var (
	editMetric    = metrics.NewLevenshtein()
	overlapMetric = metrics.NewSorensenDice()
)

// similarity scores two identity keys in [0,1] as the better of bigram
// overlap and normalised edit distance.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return max(strutil.Similarity(a, b, overlapMetric), strutil.Similarity(a, b, editMetric))
}
