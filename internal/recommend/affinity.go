// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import (
	"sort"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// communityTagRank is how many community-voted tags count as "top" when
// matching against a taste profile.
const communityTagRank = 3

// TasteProfile captures what a user is drawn to: tags from liked events
// or declared preferences, and the categories of events they interacted
// with.
type TasteProfile struct {
	Tags       []string
	Categories []string
}

// Empty reports whether the profile carries no signal at all.
func (p TasteProfile) Empty() bool {
	return len(p.Tags) == 0 && len(p.Categories) == 0
}

// AffinityScorer ranks candidate events with explainable rules instead of
// learned similarity:
//
//	+1 for each curator tag shared with the profile
//	+1 for each profile tag among the event's top-3 community-voted tags
//	+2 if the primary category is one the profile has affinity for
//	+1 if the secondary category matches likewise
//
// Events the user already liked or attended are excluded before scoring,
// and candidates that score zero are omitted from the result.
type AffinityScorer struct{}

// NewAffinityScorer returns an AffinityScorer.
func NewAffinityScorer() *AffinityScorer {
	return &AffinityScorer{}
}

// Score computes affinity points for every candidate not in exclude.
func (s *AffinityScorer) Score(profile TasteProfile, candidates []models.Event, exclude map[string]struct{}) ScoreMap {
	profileTags := make(map[string]struct{}, len(profile.Tags))
	for _, t := range profile.Tags {
		profileTags[t] = struct{}{}
	}
	profileCategories := make(map[string]struct{}, len(profile.Categories))
	for _, c := range profile.Categories {
		profileCategories[c] = struct{}{}
	}

	scores := make(ScoreMap)
	for i := range candidates {
		ev := &candidates[i]
		if _, skip := exclude[ev.ID]; skip {
			continue
		}

		points := 0
		for _, tag := range ev.Tags {
			if _, ok := profileTags[tag]; ok {
				points++
			}
		}
		for _, tag := range topCommunityTags(ev.CommunityTagVotes, communityTagRank) {
			if _, ok := profileTags[tag]; ok {
				points++
			}
		}
		if ev.CategoryPrimary != "" {
			if _, ok := profileCategories[ev.CategoryPrimary]; ok {
				points += 2
			}
		}
		if ev.CategorySecondary != "" {
			if _, ok := profileCategories[ev.CategorySecondary]; ok {
				points++
			}
		}

		if points > 0 {
			scores[ev.ID] = float64(points)
		}
	}

	return scores
}

// topCommunityTags returns up to n tags ordered by vote count descending,
// ties broken by tag string ascending.
func topCommunityTags(votes map[string]int, n int) []string {
	if len(votes) == 0 || n <= 0 {
		return nil
	}

	tags := make([]string, 0, len(votes))
	for tag := range votes {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if votes[tags[i]] != votes[tags[j]] {
			return votes[tags[i]] > votes[tags[j]]
		}
		return tags[i] < tags[j]
	})

	if len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
