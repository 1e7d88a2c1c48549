// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package models defines the domain types shared across the KidsAdvisor
// server: users, events, participations, and recommendation records.
package models

import "time"

// Roles assignable to users.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Participation status values.
const (
	ParticipationPending   = "pending"
	ParticipationConfirmed = "confirmed"
)

// User is a registered platform user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	// PreferredTags holds 1 to 5 tags from the curated vocabulary,
	// chosen at registration.
	PreferredTags []string  `json:"preferred_tags"`
	Friends       []string  `json:"friends"`
	XP            int       `json:"xp"`
	Level         int       `json:"level"`
	Badges        []string  `json:"badges"`
	CreatedAt     time.Time `json:"created_at"`
}

// Event is a published or draft family event.
type Event struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
	// Tags are curator-assigned tags from the curated vocabulary.
	Tags []string `json:"tags"`
	// CommunityTagVotes aggregates the classification tags submitted by
	// confirmed participants, keyed by tag with vote counts.
	CommunityTagVotes map[string]int `json:"community_tag_votes"`
	CategoryPrimary   string         `json:"category_primary"`
	CategorySecondary string         `json:"category_secondary"`
	Published         bool           `json:"published"`
	CreatedBy         string         `json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
}

// Participation links a user to an event they joined.
type Participation struct {
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
	Status  string `json:"status"`
	// Tags are the 1 to 3 classification tags the participant assigned
	// to the event on confirmation.
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Confirmed reports whether the participation has been confirmed.
func (p Participation) Confirmed() bool {
	return p.Status == ParticipationConfirmed
}

// PublicUser is the user representation exposed by the API, without
// credential material.
type PublicUser struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	PreferredTags []string  `json:"preferred_tags"`
	Friends       []string  `json:"friends"`
	XP            int       `json:"xp"`
	Level         int       `json:"level"`
	Badges        []string  `json:"badges"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the API-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Role:          u.Role,
		PreferredTags: u.PreferredTags,
		Friends:       u.Friends,
		XP:            u.XP,
		Level:         u.Level,
		Badges:        u.Badges,
		CreatedAt:     u.CreatedAt,
	}
}
