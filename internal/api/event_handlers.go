// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kidsadvisor/kidsadvisor/internal/gamification"
	"github.com/kidsadvisor/kidsadvisor/internal/metrics"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/validation"
)

// ListEvents handles GET /api/v1/events. Regular users see published
// events; admins may pass ?all=true to include drafts.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	var (
		events []models.Event
		err    error
	)
	if r.URL.Query().Get("all") == "true" && claims.Role == models.RoleAdmin {
		events, err = h.store.ListEvents(r.Context())
	} else {
		events, err = h.store.ListPublishedEvents(r.Context())
	}
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.SuccessWithCount(events, len(events))
}

// GetEvent handles GET /api/v1/events/{eventID}. Drafts are visible to
// admins only.
func (h *Handlers) GetEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	event, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if !event.Published && claims.Role != models.RoleAdmin {
		rw.NotFound("Resource not found")
		return
	}
	rw.Success(event)
}

// CreateEvent handles POST /api/v1/events (admin only).
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	event := &models.Event{
		ID:                uuid.New().String(),
		Name:              req.Name,
		Detail:            req.Detail,
		Tags:              req.Tags,
		CommunityTagVotes: map[string]int{},
		CategoryPrimary:   req.CategoryPrimary,
		CategorySecondary: req.CategorySecondary,
		Published:         req.Published,
		CreatedBy:         claims.Subject,
		CreatedAt:         time.Now().UTC(),
	}
	if err := h.store.SaveEvent(r.Context(), event); err != nil {
		rw.ServiceError(err)
		return
	}

	h.logger.Info().Str("event_id", event.ID).Bool("published", event.Published).Msg("Event created")
	rw.Created(event)
}

// UpdateEvent handles PUT /api/v1/events/{eventID} (admin only).
// Community tag votes are preserved across updates.
func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req EventRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	event, err := h.store.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		rw.ServiceError(err)
		return
	}

	event.Name = req.Name
	event.Detail = req.Detail
	event.Tags = req.Tags
	event.CategoryPrimary = req.CategoryPrimary
	event.CategorySecondary = req.CategorySecondary
	event.Published = req.Published
	if err := h.store.SaveEvent(r.Context(), event); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(event)
}

// DeleteEvent handles DELETE /api/v1/events/{eventID} (admin only).
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	eventID := chi.URLParam(r, "eventID")

	if _, err := h.store.GetEvent(r.Context(), eventID); err != nil {
		rw.ServiceError(err)
		return
	}
	if err := h.store.DeleteEvent(r.Context(), eventID); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.NoContent()
}

// LikeEvent handles POST /api/v1/events/{eventID}/like. Liking grants
// XP and may award badges; liking twice is a conflict so rewards cannot
// be farmed.
func (h *Handlers) LikeEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	event, err := h.store.GetEvent(r.Context(), eventID)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if !event.Published {
		rw.NotFound("Resource not found")
		return
	}

	liked, err := h.store.HasLike(r.Context(), claims.Subject, eventID)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if liked {
		rw.Conflict("Event already liked")
		return
	}

	if err := h.store.AddLike(r.Context(), claims.Subject, eventID); err != nil {
		rw.ServiceError(err)
		return
	}

	progress, earned, err := h.game.RecordLike(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	metrics.RecordXP(gamification.XPPerLike)
	for _, badge := range earned {
		metrics.RecordBadge(badge)
	}

	rw.Success(map[string]any{
		"event_id":   eventID,
		"progress":   progress,
		"new_badges": earned,
	})
}

// UnlikeEvent handles DELETE /api/v1/events/{eventID}/like.
func (h *Handlers) UnlikeEvent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	liked, err := h.store.HasLike(r.Context(), claims.Subject, eventID)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if !liked {
		rw.NotFound("Like not found")
		return
	}

	if err := h.store.RemoveLike(r.Context(), claims.Subject, eventID); err != nil {
		rw.ServiceError(err)
		return
	}
	progress, err := h.game.RecordUnlike(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	rw.Success(map[string]any{
		"event_id": eventID,
		"progress": progress,
	})
}
