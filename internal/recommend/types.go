// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package recommend implements the KidsAdvisor recommendation engine:
// TF-IDF content similarity, user-based collaborative filtering, rule-based
// affinity scoring, and the weighted hybrid blend of those signals.
package recommend

import (
	"math"
	"sort"
)

// Method identifies which scoring path produced a recommendation.
const (
	MethodContent       = "content"
	MethodCollaborative = "collaborative"
	MethodHybrid        = "hybrid"
	MethodAffinity      = "affinity"
)

// ScoreMap maps event IDs to relevance scores.
type ScoreMap map[string]float64

// Recommendation is a single recommended event with its score and the
// method that produced it. Scores are rounded to three decimals.
type Recommendation struct {
	EventID string  `json:"event_id"`
	Score   float64 `json:"score"`
	Method  string  `json:"method"`
}

// UserInteractionProfile captures a user's interaction history, rebuilt
// fresh on every request. Liked holds liked event IDs; Attended holds
// confirmed participation event IDs.
type UserInteractionProfile struct {
	UserID   string
	Liked    []string
	Attended []string
}

// InteractedIDs returns the union of liked and attended event IDs,
// sorted for deterministic iteration.
func (p *UserInteractionProfile) InteractedIDs() []string {
	seen := make(map[string]struct{}, len(p.Liked)+len(p.Attended))
	for _, id := range p.Liked {
		seen[id] = struct{}{}
	}
	for _, id := range p.Attended {
		seen[id] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExclusionSet returns the IDs of events the user already liked or
// attended. Recommendations never include these.
func (p *UserInteractionProfile) ExclusionSet() map[string]struct{} {
	set := make(map[string]struct{}, len(p.Liked)+len(p.Attended))
	for _, id := range p.Liked {
		set[id] = struct{}{}
	}
	for _, id := range p.Attended {
		set[id] = struct{}{}
	}
	return set
}

// Empty reports whether the user has no interactions at all.
func (p *UserInteractionProfile) Empty() bool {
	return len(p.Liked) == 0 && len(p.Attended) == 0
}

// roundScore rounds half away from zero to three decimal places.
// Applied once, when recommendation records are assembled.
func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
