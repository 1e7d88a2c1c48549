// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package gamification implements the XP ladder, badge awards, and the
// platform leaderboard. Progression is derived state: XP is the source of
// truth, levels are computed from the ladder, and badges are awarded once
// and never revoked.
package gamification

import (
	"sort"

	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// XPPerLike is the XP granted for liking an event.
const XPPerLike = 10

// Badge identifiers. These are stored on user documents, so the strings
// are part of the persisted format.
const (
	BadgeFirstEvent = "primeiro_evento" // first like
	BadgeExplorer   = "explorador"      // 5 likes
	BadgeSocial     = "social"          // 3 friends
	BadgeVeteran    = "veterano"        // 20 likes
	BadgeInfluencer = "influencer"      // reached level 10
)

const (
	explorerLikes   = 5
	socialFriends   = 3
	veteranLikes    = 20
	influencerLevel = 10
)

// Progress is a user's gamification state.
type Progress struct {
	XP       int      `json:"xp"`
	Level    int      `json:"level"`
	XPToNext int      `json:"xp_to_next"` // 0 at max level
	Badges   []string `json:"badges"`
}

// LeaderboardEntry is one row of the platform leaderboard.
type LeaderboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
}

// LevelForXP returns the level reached with the given XP. Levels start
// at 1; XP below the first threshold still counts as level 1.
func LevelForXP(xp int) int {
	ladder := config.XPLadder()
	level := 1
	for i, threshold := range ladder {
		if xp >= threshold {
			level = i + 1
		} else {
			break
		}
	}
	return level
}

// XPToNextLevel returns how much XP is missing until the next level,
// or 0 when the user is at the top of the ladder.
func XPToNextLevel(xp int) int {
	ladder := config.XPLadder()
	for _, threshold := range ladder {
		if xp < threshold {
			return threshold - xp
		}
	}
	return 0
}

// ProgressFor derives the full progression view from a user record.
func ProgressFor(user *models.User) Progress {
	badges := make([]string, len(user.Badges))
	copy(badges, user.Badges)
	return Progress{
		XP:       user.XP,
		Level:    LevelForXP(user.XP),
		XPToNext: XPToNextLevel(user.XP),
		Badges:   badges,
	}
}

// EvaluateBadges returns the badges the user has newly earned given their
// current like and friend counts. Already-held badges are never returned,
// so awarding is idempotent.
func EvaluateBadges(user *models.User, likeCount, friendCount int) []string {
	held := make(map[string]struct{}, len(user.Badges))
	for _, b := range user.Badges {
		held[b] = struct{}{}
	}

	var earned []string
	award := func(badge string, ok bool) {
		if !ok {
			return
		}
		if _, has := held[badge]; has {
			return
		}
		earned = append(earned, badge)
	}

	award(BadgeFirstEvent, likeCount >= 1)
	award(BadgeExplorer, likeCount >= explorerLikes)
	award(BadgeVeteran, likeCount >= veteranLikes)
	award(BadgeSocial, friendCount >= socialFriends)
	award(BadgeInfluencer, LevelForXP(user.XP) >= influencerLevel)

	return earned
}

// ApplyLike grants the like reward, recomputes the level, and awards any
// badges the new state unlocks. likeCount must already include the like
// being applied. Returns the badges earned by this action.
func ApplyLike(user *models.User, likeCount, friendCount int) []string {
	user.XP += XPPerLike
	user.Level = LevelForXP(user.XP)

	earned := EvaluateBadges(user, likeCount, friendCount)
	user.Badges = append(user.Badges, earned...)
	return earned
}

// ApplyUnlike removes the like reward, flooring XP at zero. Badges stay:
// they record achievements, not current state.
func ApplyUnlike(user *models.User) {
	user.XP -= XPPerLike
	if user.XP < 0 {
		user.XP = 0
	}
	user.Level = LevelForXP(user.XP)
}

// ApplyFriendship awards any badges unlocked by the user's new friend
// count. Returns the badges earned.
func ApplyFriendship(user *models.User, likeCount, friendCount int) []string {
	earned := EvaluateBadges(user, likeCount, friendCount)
	user.Badges = append(user.Badges, earned...)
	return earned
}

// RankUsers builds the leaderboard: XP descending, ties broken by
// username ascending, truncated to n entries.
func RankUsers(users []models.User, n int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		u := &users[i]
		entries = append(entries, LeaderboardEntry{
			UserID:   u.ID,
			Username: u.Username,
			XP:       u.XP,
			Level:    LevelForXP(u.XP),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].Username < entries[j].Username
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
