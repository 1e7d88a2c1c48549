// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
	"github.com/kidsadvisor/kidsadvisor/internal/validation"
)

// JoinEvent handles POST /api/v1/events/{eventID}/participations,
// creating a pending participation.
func (h *Handlers) JoinEvent(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.store.GetParticipation(r.Context(), claims.Subject, eventID); err == nil {
		rw.Conflict("Already participating in this event")
		return
	} else if !errors.Is(err, recommend.ErrNotFound) {
		rw.ServiceError(err)
		return
	}

	participation := &models.Participation{
		UserID:    claims.Subject,
		EventID:   eventID,
		Status:    models.ParticipationPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.SaveParticipation(r.Context(), participation); err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Created(participation)
}

// ConfirmParticipation handles
// POST /api/v1/events/{eventID}/participations/confirm. Confirmation
// requires 1 to 3 classification tags, which are aggregated into the
// event's community tag votes.
func (h *Handlers) ConfirmParticipation(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	var req ConfirmParticipationRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	participation, err := h.store.GetParticipation(r.Context(), claims.Subject, eventID)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if participation.Confirmed() {
		rw.Conflict("Participation already confirmed")
		return
	}

	event, err := h.store.GetEvent(r.Context(), eventID)
	if err != nil {
		rw.ServiceError(err)
		return
	}

	participation.Status = models.ParticipationConfirmed
	participation.Tags = req.Tags
	if err := h.store.SaveParticipation(r.Context(), participation); err != nil {
		rw.ServiceError(err)
		return
	}

	if event.CommunityTagVotes == nil {
		event.CommunityTagVotes = map[string]int{}
	}
	for _, tag := range req.Tags {
		event.CommunityTagVotes[tag]++
	}
	if err := h.store.SaveEvent(r.Context(), event); err != nil {
		rw.ServiceError(err)
		return
	}

	rw.Success(participation)
}

// ListMyParticipations handles GET /api/v1/users/me/participations.
func (h *Handlers) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	parts, err := h.store.ListUserParticipations(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.SuccessWithCount(parts, len(parts))
}
