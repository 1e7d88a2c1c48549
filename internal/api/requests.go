// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

// RegisterRequest creates a new user account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	// PreferredTags seed the cold-start taste profile.
	PreferredTags []string `json:"preferred_tags" validate:"required,min=1,max=5,dive,known_tag"`
}

// LoginRequest authenticates an existing user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateTagsRequest replaces the user's preferred tags.
type UpdateTagsRequest struct {
	PreferredTags []string `json:"preferred_tags" validate:"required,min=1,max=5,dive,known_tag"`
}

// EventRequest creates or updates an event.
type EventRequest struct {
	Name              string   `json:"name" validate:"required,min=3,max=200"`
	Detail            string   `json:"detail" validate:"max=5000"`
	Tags              []string `json:"tags" validate:"omitempty,max=14,dive,known_tag"`
	CategoryPrimary   string   `json:"category_primary" validate:"required,known_tag"`
	CategorySecondary string   `json:"category_secondary" validate:"omitempty,known_tag"`
	Published         bool     `json:"published"`
}

// ConfirmParticipationRequest confirms attendance and classifies the
// event with 1 to 3 tags that feed the community vote counts.
type ConfirmParticipationRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,max=3,dive,known_tag"`
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// queryLimit parses the optional ?limit= parameter. Absent or empty
// returns 0, which services replace with their default. A malformed or
// out-of-range value is a client error.
func queryLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer")
	}
	if limit < 1 || (maxLimit > 0 && limit > maxLimit) {
		return 0, fmt.Errorf("limit must be between 1 and %d", maxLimit)
	}
	return limit, nil
}
