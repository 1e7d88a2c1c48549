// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package gamification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// Store is the persistence surface the gamification service needs.
type Store interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
	CountUserLikes(ctx context.Context, userID string) (int, error)
}

// Service applies gamification rules against stored users.
type Service struct {
	store  Store
	logger zerolog.Logger
}

// NewService creates a gamification service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(store Store, logger zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.With().Str("component", "gamification").Logger(),
	}
}

// Progress returns the user's current progression.
func (s *Service) Progress(ctx context.Context, userID string) (Progress, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Progress{}, err
	}
	return ProgressFor(user), nil
}

// Leaderboard returns the top n users by XP.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return RankUsers(users, n), nil
}

// RecordLike grants the like reward to the user and persists the result.
// Returns the updated progression and any badges earned.
func (s *Service) RecordLike(ctx context.Context, userID string) (Progress, []string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Progress{}, nil, err
	}
	likeCount, err := s.store.CountUserLikes(ctx, userID)
	if err != nil {
		return Progress{}, nil, err
	}

	earned := ApplyLike(user, likeCount, len(user.Friends))
	if err := s.store.SaveUser(ctx, user); err != nil {
		return Progress{}, nil, err
	}

	if len(earned) > 0 {
		s.logger.Info().
			Str("user_id", userID).
			Strs("badges", earned).
			Msg("Badges awarded")
	}
	return ProgressFor(user), earned, nil
}

// RecordUnlike removes the like reward and persists the result.
func (s *Service) RecordUnlike(ctx context.Context, userID string) (Progress, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return Progress{}, err
	}

	ApplyUnlike(user)
	if err := s.store.SaveUser(ctx, user); err != nil {
		return Progress{}, err
	}
	return ProgressFor(user), nil
}

// RecordFriendship re-evaluates badges after the user's friend list
// changed and persists any new awards.
func (s *Service) RecordFriendship(ctx context.Context, userID string) ([]string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.store.CountUserLikes(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := ApplyFriendship(user, likeCount, len(user.Friends))
	if len(earned) == 0 {
		return nil, nil
	}
	if err := s.store.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Strs("badges", earned).
		Msg("Badges awarded")
	return earned, nil
}
