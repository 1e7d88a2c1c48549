// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kidsadvisor/kidsadvisor/internal/validation"
)

// GetMe handles GET /api/v1/users/me.
func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(user.Public())
}

// UpdateTags handles PUT /api/v1/users/me/tags.
func (h *Handlers) UpdateTags(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	var req UpdateTagsRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	user.PreferredTags = req.PreferredTags
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(user.Public())
}

// AddFriend handles PUT /api/v1/users/me/friends/{userID}.
func (h *Handlers) AddFriend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	friendID := chi.URLParam(r, "userID")

	if friendID == claims.Subject {
		rw.BadRequest("Cannot add yourself as a friend")
		return
	}
	if _, err := h.store.GetUser(r.Context(), friendID); err != nil {
		rw.ServiceError(err)
		return
	}

	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	for _, id := range user.Friends {
		if id == friendID {
			rw.Success(user.Public())
			return
		}
	}
	user.Friends = append(user.Friends, friendID)
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		rw.ServiceError(err)
		return
	}

	if _, err := h.game.RecordFriendship(r.Context(), user.ID); err != nil {
		h.logger.Warn().Err(err).Str("user_id", user.ID).Msg("Friendship badge evaluation failed")
	}

	// Re-read so the response reflects any badge awards.
	user, err = h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(user.Public())
}

// RemoveFriend handles DELETE /api/v1/users/me/friends/{userID}.
func (h *Handlers) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	friendID := chi.URLParam(r, "userID")

	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	friends := user.Friends[:0]
	for _, id := range user.Friends {
		if id != friendID {
			friends = append(friends, id)
		}
	}
	user.Friends = friends
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(user.Public())
}
