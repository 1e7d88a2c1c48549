// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package config

// Fixed platform catalogs. These are deliberately not configurable at
// runtime: tags are referenced by stored documents and the XP ladder is
// referenced by persisted user levels, so changing them would corrupt
// existing data.

// tagVocabulary is the curated set of event tags. Users pick preferred
// tags from this set and participants classify events with it.
var tagVocabulary = []string{
	"Aventura",
	"Aquático",
	"Recreação/Lazer",
	"Cultural",
	"Show",
	"Musical",
	"Teatro",
	"Educativo/Científico",
	"Ar Livre",
	"Parque Temático",
	"Indoor/Fechado",
	"Day Use/Passeio",
	"Familiar",
	"Infantil/Crianças",
}

// xpLadder maps level-1 index to the cumulative XP required for that level.
// Level 1 starts at 0 XP; level 20 is the cap.
var xpLadder = []int{
	0, 100, 250, 450, 700, 1000, 1350, 1750, 2200, 2700,
	3250, 3850, 4500, 5200, 5950, 6750, 7600, 8500, 9450, 10450,
}

// TagVocabulary returns a copy of the curated tag set.
func TagVocabulary() []string {
	out := make([]string, len(tagVocabulary))
	copy(out, tagVocabulary)
	return out
}

// IsKnownTag reports whether tag belongs to the curated vocabulary.
func IsKnownTag(tag string) bool {
	for _, t := range tagVocabulary {
		if t == tag {
			return true
		}
	}
	return false
}

// XPLadder returns a copy of the cumulative XP thresholds per level.
func XPLadder() []int {
	out := make([]int, len(xpLadder))
	copy(out, xpLadder)
	return out
}

// MaxLevel is the highest attainable level.
func MaxLevel() int {
	return len(xpLadder)
}
