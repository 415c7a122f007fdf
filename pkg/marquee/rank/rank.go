// Package rank scores and orders similarity-search candidates.
package rank

import (
	"math"
	"sort"
)

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// or zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scored pairs a candidate ID with its similarity score.
type Scored struct {
	ID    int64
	Score float64
}

// TopK sorts candidates by descending score, breaking ties by ascending ID
// so results are deterministic, and returns at most k of them.
func TopK(candidates []Scored, k int) []Scored {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].ID < candidates[j].ID
	})
	if k >= 0 && len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
