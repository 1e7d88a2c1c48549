// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// likeRecord is the stored value for a like key.
type likeRecord struct {
	CreatedAt time.Time `json:"created_at"`
}

func likeKey(userID, eventID string) string {
	return likePrefix + userID + ":" + eventID
}

func partKey(userID, eventID string) string {
	return partPrefix + userID + ":" + eventID
}

// AddLike records that the user liked the event. Liking twice is a no-op
// at the storage level; callers guard against double rewards.
func (s *Store) AddLike(_ context.Context, userID, eventID string) error {
	return s.put(likeKey(userID, eventID), likeRecord{CreatedAt: time.Now().UTC()})
}

// RemoveLike deletes the like if present.
func (s *Store) RemoveLike(_ context.Context, userID, eventID string) error {
	return s.delete(likeKey(userID, eventID))
}

// HasLike reports whether the user liked the event.
func (s *Store) HasLike(_ context.Context, userID, eventID string) (bool, error) {
	return s.exists(likeKey(userID, eventID))
}

// GetUserLikes returns the event IDs the user liked, ordered by ID.
func (s *Store) GetUserLikes(_ context.Context, userID string) ([]string, error) {
	var eventIDs []string
	err := s.scanKeys(likePrefix+userID+":", func(suffix string) error {
		eventIDs = append(eventIDs, suffix)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(eventIDs)
	return eventIDs, nil
}

// CountUserLikes returns how many events the user liked.
func (s *Store) CountUserLikes(ctx context.Context, userID string) (int, error) {
	likes, err := s.GetUserLikes(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(likes), nil
}

// SaveParticipation writes the participation document.
func (s *Store) SaveParticipation(_ context.Context, p *models.Participation) error {
	return s.put(partKey(p.UserID, p.EventID), p)
}

// GetParticipation returns the user's participation in the event.
func (s *Store) GetParticipation(_ context.Context, userID, eventID string) (*models.Participation, error) {
	var p models.Participation
	if err := s.get(partKey(userID, eventID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetUserParticipations returns the event IDs of the user's confirmed
// participations, ordered by ID.
func (s *Store) GetUserParticipations(_ context.Context, userID string) ([]string, error) {
	var eventIDs []string
	err := s.scan(partPrefix+userID+":", func(_ string, val []byte) error {
		var p models.Participation
		if err := unmarshal(val, &p); err != nil {
			return err
		}
		if p.Confirmed() {
			eventIDs = append(eventIDs, p.EventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(eventIDs)
	return eventIDs, nil
}

// ListUserParticipations returns all of the user's participations,
// pending and confirmed.
func (s *Store) ListUserParticipations(_ context.Context, userID string) ([]models.Participation, error) {
	var parts []models.Participation
	err := s.scan(partPrefix+userID+":", func(_ string, val []byte) error {
		var p models.Participation
		if err := unmarshal(val, &p); err != nil {
			return err
		}
		parts = append(parts, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].EventID < parts[j].EventID })
	return parts, nil
}

// ListAllInteractions returns, for every user, the union of liked and
// confirmed-participation event IDs. Used to build the collaborative
// filtering matrix.
func (s *Store) ListAllInteractions(_ context.Context) (map[string][]string, error) {
	seen := make(map[string]map[string]struct{})
	record := func(userID, eventID string) {
		if seen[userID] == nil {
			seen[userID] = make(map[string]struct{})
		}
		seen[userID][eventID] = struct{}{}
	}

	err := s.scanKeys(likePrefix, func(suffix string) error {
		if userID, eventID, ok := splitPairKey(suffix); ok {
			record(userID, eventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.scan(partPrefix, func(_ string, val []byte) error {
		var p models.Participation
		if err := unmarshal(val, &p); err != nil {
			return err
		}
		if p.Confirmed() {
			record(p.UserID, p.EventID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	interactions := make(map[string][]string, len(seen))
	for userID, events := range seen {
		ids := make([]string, 0, len(events))
		for id := range events {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		interactions[userID] = ids
	}
	return interactions, nil
}

// splitPairKey splits a "<userID>:<eventID>" key suffix. IDs are UUIDs
// and never contain colons.
func splitPairKey(suffix string) (userID, eventID string, ok bool) {
	idx := strings.IndexByte(suffix, ':')
	if idx < 0 {
		return "", "", false
	}
	return suffix[:idx], suffix[idx+1:], true
}
