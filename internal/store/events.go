// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package store

import (
	"context"
	"sort"

	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// GetEvent returns the event with the given ID.
func (s *Store) GetEvent(_ context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := s.get(eventPrefix+eventID, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// SaveEvent writes the event document.
func (s *Store) SaveEvent(_ context.Context, event *models.Event) error {
	return s.put(eventPrefix+event.ID, event)
}

// DeleteEvent removes the event document.
func (s *Store) DeleteEvent(_ context.Context, eventID string) error {
	return s.delete(eventPrefix + eventID)
}

// ListEvents returns every event, published or not, ordered by ID.
func (s *Store) ListEvents(_ context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.scan(eventPrefix, func(_ string, val []byte) error {
		var event models.Event
		if err := unmarshal(val, &event); err != nil {
			return err
		}
		events = append(events, event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

// ListPublishedEvents returns every published event, ordered by ID.
func (s *Store) ListPublishedEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	published := events[:0]
	for _, ev := range events {
		if ev.Published {
			published = append(published, ev)
		}
	}
	return published, nil
}
