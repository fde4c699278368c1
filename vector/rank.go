package vector

import (
	"maps"
	"math"
	"slices"
	"strings"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// Mismatched lengths, empty vectors and zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, sqA, sqB float64
	for i, x := range a {
		dot += x * b[i]
		sqA += x * x
		sqB += b[i] * b[i]
	}
	if sqA == 0 || sqB == 0 {
		return 0
	}
	return dot / math.Sqrt(sqA*sqB)
}

// rank scores every item against embedding, best first. Equal scores order by ID so
// results are stable across map iteration.
func rank(items map[string]Item, embedding []float64) []QueryResult {
	results := make([]QueryResult, 0, len(items))
	for _, item := range items {
		if len(item.Embedding) == 0 {
			continue
		}
		results = append(results, QueryResult{
			ID:       item.ID,
			Score:    CosineSimilarity(embedding, item.Embedding),
			Metadata: maps.Clone(item.Metadata),
		})
	}

	slices.SortFunc(results, func(a, b QueryResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return results
}

// truncate keeps the first topK results; topK <= 0 keeps everything.
func truncate(results []QueryResult, topK int) []QueryResult {
	if topK > 0 && len(results) > topK {
		return results[:topK]
	}
	return results
}
