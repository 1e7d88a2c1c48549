// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kidsadvisor/kidsadvisor/internal/metrics"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
)

// recommendFunc is one of the service's recommendation paths.
type recommendFunc func(ctx context.Context, id string, limit int) ([]recommend.Recommendation, error)

// RecommendHybrid handles GET /api/v1/recommendations/user/{userID}.
func (h *Handlers) RecommendHybrid(w http.ResponseWriter, r *http.Request) {
	h.recommendForUser(w, r, recommend.MethodHybrid, h.recommender.HybridRecommendations)
}

// RecommendContent handles GET /api/v1/recommendations/user/{userID}/content.
func (h *Handlers) RecommendContent(w http.ResponseWriter, r *http.Request) {
	h.recommendForUser(w, r, recommend.MethodContent, h.recommender.ContentRecommendations)
}

// RecommendCollaborative handles
// GET /api/v1/recommendations/user/{userID}/collaborative.
func (h *Handlers) RecommendCollaborative(w http.ResponseWriter, r *http.Request) {
	h.recommendForUser(w, r, recommend.MethodCollaborative, h.recommender.CollaborativeRecommendations)
}

// RecommendAffinity handles GET /api/v1/recommendations/user/{userID}/related,
// the tag/category affinity ranking. Unlike the learned paths it returns
// 422 when the user has no signal to rank with.
func (h *Handlers) RecommendAffinity(w http.ResponseWriter, r *http.Request) {
	h.recommendForUser(w, r, recommend.MethodAffinity, h.recommender.AffinityRecommendations)
}

// recommendForUser runs one recommendation path for the user in the URL.
// Users may only request their own recommendations; admins may request
// anyone's.
func (h *Handlers) recommendForUser(w http.ResponseWriter, r *http.Request, method string, fn recommendFunc) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())
	userID := chi.URLParam(r, "userID")

	if userID != claims.Subject && claims.Role != models.RoleAdmin {
		rw.Forbidden("Cannot request recommendations for another user")
		return
	}

	limit, err := queryLimit(r, h.cfg.API.MaxLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	start := time.Now()
	recs, err := fn(r.Context(), userID, limit)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	metrics.RecordRecommendation(method, time.Since(start), len(recs))

	rw.SuccessWithCount(recs, len(recs))
}

// RecommendRelated handles GET /api/v1/recommendations/related/{eventID}.
func (h *Handlers) RecommendRelated(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	eventID := chi.URLParam(r, "eventID")

	limit, err := queryLimit(r, h.cfg.API.MaxLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	start := time.Now()
	recs, err := h.recommender.RelatedEvents(r.Context(), eventID, limit)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	metrics.RecordRecommendation(recommend.MethodContent, time.Since(start), len(recs))

	rw.SuccessWithCount(recs, len(recs))
}
