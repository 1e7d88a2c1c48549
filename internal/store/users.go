// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
)

// GetUser returns the user with the given ID.
func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.get(userPrefix+userID, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SaveUser writes the user document.
func (s *Store) SaveUser(_ context.Context, user *models.User) error {
	return s.put(userPrefix+user.ID, user)
}

// ListUsers returns every user, ordered by ID.
func (s *Store) ListUsers(_ context.Context) ([]models.User, error) {
	var users []models.User
	err := s.scan(userPrefix, func(_ string, val []byte) error {
		var user models.User
		if err := unmarshal(val, &user); err != nil {
			return err
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// FindUserByEmail returns the user registered with the given email.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", recommend.ErrNotFound, email)
}

// EmailTaken reports whether a user is already registered with the email.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.FindUserByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}
