// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import "math"

// Cosine computes the cosine similarity between two sparse vectors.
// The result is in [-1, 1]. If either vector has zero magnitude the
// similarity is 0, never NaN.
func Cosine(a, b Vector) float64 {
	// Iterate the smaller map for the dot product.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	if dot == 0 {
		return 0
	}

	normA := norm(a)
	normB := norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (normA * normB)
}

// ScoreAgainstCorpus computes cosine similarity between a query vector and
// every corpus vector, returning a ScoreMap keyed by event ID.
func ScoreAgainstCorpus(query Vector, corpus map[string]Vector) ScoreMap {
	scores := make(ScoreMap, len(corpus))
	for id, vec := range corpus {
		scores[id] = Cosine(query, vec)
	}
	return scores
}

func norm(v Vector) float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}
