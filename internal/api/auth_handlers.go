// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kidsadvisor/kidsadvisor/internal/auth"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/validation"
)

// AuthResponse carries a session token and the authenticated user.
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	taken, err := h.store.EmailTaken(r.Context(), req.Email)
	if err != nil {
		rw.ServiceError(err)
		return
	}
	if taken {
		rw.Conflict("Email is already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		h.logger.Error().Err(err).Msg("Password hashing failed")
		rw.InternalError("Could not create account")
		return
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Email:         req.Email,
		Username:      req.Username,
		PasswordHash:  hash,
		Role:          models.RoleUser,
		PreferredTags: req.PreferredTags,
		Level:         1,
		CreatedAt:     time.Now().UTC(),
	}
	if err := h.store.SaveUser(r.Context(), user); err != nil {
		rw.ServiceError(err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		rw.InternalError("Could not create session")
		return
	}

	h.logger.Info().Str("user_id", user.ID).Msg("User registered")
	rw.Created(AuthResponse{Token: token, User: user.Public()})
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	user, err := h.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		rw.Unauthorized("Invalid credentials")
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		rw.Unauthorized("Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("Token generation failed")
		rw.InternalError("Could not create session")
		return
	}

	rw.Success(AuthResponse{Token: token, User: user.Public()})
}
