// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"net/http"
)

// GetMyProgress handles GET /api/v1/gamification/me.
func (h *Handlers) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	claims := IdentityFromContext(r.Context())

	progress, err := h.game.Progress(r.Context(), claims.Subject)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.Success(progress)
}

// GetLeaderboard handles GET /api/v1/gamification/leaderboard.
func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	limit, err := queryLimit(r, h.cfg.API.MaxLimit)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if limit == 0 {
		limit = h.cfg.API.DefaultLimit
	}

	entries, err := h.game.Leaderboard(r.Context(), limit)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	rw.SuccessWithCount(entries, len(entries))
}
