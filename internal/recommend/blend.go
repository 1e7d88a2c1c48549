// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import (
	"fmt"
	"sort"
)

// WeightedScores pairs a score map with its blend weight.
type WeightedScores struct {
	Scores ScoreMap
	Weight float64
}

// ScoredEvent is a ranked entry produced by Rank.
type ScoredEvent struct {
	EventID string
	Score   float64
}

// Blend combines score maps into one by weighted sum. An event missing
// from a map contributes 0 for that map, so the blend is linear in each
// input signal.
func Blend(inputs []WeightedScores) ScoreMap {
	combined := make(ScoreMap)
	for _, in := range inputs {
		if in.Weight == 0 || len(in.Scores) == 0 {
			continue
		}
		for id, score := range in.Scores {
			combined[id] += in.Weight * score
		}
	}
	return combined
}

// Rank removes excluded events, orders the rest by score descending with
// ties broken by event ID ascending, and truncates to limit.
//
// Returns ErrValidation when limit is not positive.
func Rank(scores ScoreMap, exclude map[string]struct{}, limit int) ([]ScoredEvent, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", ErrValidation, limit)
	}

	ranked := make([]ScoredEvent, 0, len(scores))
	for id, score := range scores {
		if _, skip := exclude[id]; skip {
			continue
		}
		ranked = append(ranked, ScoredEvent{EventID: id, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].EventID < ranked[j].EventID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
