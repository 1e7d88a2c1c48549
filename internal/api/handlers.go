// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/auth"
	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/gamification"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
	"github.com/kidsadvisor/kidsadvisor/internal/store"
)

// Handlers bundles the request handlers and their dependencies.
type Handlers struct {
	store       *store.Store
	recommender *recommend.Service
	game        *gamification.Service
	jwt         *auth.JWTManager
	cfg         config.Config
	logger      zerolog.Logger
}

// NewHandlers creates the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandlers(
	st *store.Store,
	recommender *recommend.Service,
	game *gamification.Service,
	jwtManager *auth.JWTManager,
	cfg config.Config,
	logger zerolog.Logger,
) *Handlers {
	return &Handlers{
		store:       st,
		recommender: recommender,
		game:        game,
		jwt:         jwtManager,
		cfg:         cfg,
		logger:      logger.With().Str("component", "api").Logger(),
	}
}
