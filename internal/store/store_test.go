// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.StoreConfig{InMemory: true, GCDiscardRatio: 0.5}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestUserRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	user := &models.User{
		ID:            "u1",
		Email:         "ana@example.com",
		Username:      "ana",
		PasswordHash:  "hashed",
		Role:          models.RoleUser,
		PreferredTags: []string{"Aventura"},
		XP:            30,
	}
	if err := s.SaveUser(ctx, user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	got, err := s.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != user.Email || got.Username != user.Username || got.XP != user.XP {
		t.Errorf("got %+v, want %+v", got, user)
	}
	if got.PasswordHash != "hashed" {
		t.Error("password hash not persisted")
	}
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	if _, err := s.GetUser(context.Background(), "ghost"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestFindUserByEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveUser(ctx, &models.User{ID: "u1", Email: "ana@example.com"}); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	got, err := s.FindUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Errorf("got user %s, want u1", got.ID)
	}

	if _, err := s.FindUserByEmail(ctx, "none@example.com"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}

	taken, err := s.EmailTaken(ctx, "ana@example.com")
	if err != nil || !taken {
		t.Errorf("EmailTaken = %v, %v; want true, nil", taken, err)
	}
	free, err := s.EmailTaken(ctx, "none@example.com")
	if err != nil || free {
		t.Errorf("EmailTaken = %v, %v; want false, nil", free, err)
	}
}

func TestPublishedEventFilter(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	events := []*models.Event{
		{ID: "e1", Name: "Trilha", Published: true},
		{ID: "e2", Name: "Rascunho", Published: false},
		{ID: "e3", Name: "Show", Published: true},
	}
	for _, ev := range events {
		if err := s.SaveEvent(ctx, ev); err != nil {
			t.Fatalf("SaveEvent: %v", err)
		}
	}

	published, err := s.ListPublishedEvents(ctx)
	if err != nil {
		t.Fatalf("ListPublishedEvents: %v", err)
	}
	if len(published) != 2 {
		t.Fatalf("got %d published events, want 2", len(published))
	}
	if published[0].ID != "e1" || published[1].ID != "e3" {
		t.Errorf("got %s, %s; want e1, e3", published[0].ID, published[1].ID)
	}
}

func TestDeleteEvent(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveEvent(ctx, &models.Event{ID: "e1"}); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}
	if err := s.DeleteEvent(ctx, "e1"); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, err := s.GetEvent(ctx, "e1"); !errors.Is(err, recommend.ErrNotFound) {
		t.Errorf("got err %v, want ErrNotFound", err)
	}
}

func TestLikes(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddLike(ctx, "u1", "e2"); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.AddLike(ctx, "u1", "e1"); err != nil {
		t.Fatalf("AddLike: %v", err)
	}

	has, err := s.HasLike(ctx, "u1", "e1")
	if err != nil || !has {
		t.Errorf("HasLike = %v, %v; want true, nil", has, err)
	}

	likes, err := s.GetUserLikes(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserLikes: %v", err)
	}
	if len(likes) != 2 || likes[0] != "e1" || likes[1] != "e2" {
		t.Errorf("got %v, want [e1 e2]", likes)
	}

	count, err := s.CountUserLikes(ctx, "u1")
	if err != nil || count != 2 {
		t.Errorf("CountUserLikes = %d, %v; want 2, nil", count, err)
	}

	if err := s.RemoveLike(ctx, "u1", "e1"); err != nil {
		t.Fatalf("RemoveLike: %v", err)
	}
	has, err = s.HasLike(ctx, "u1", "e1")
	if err != nil || has {
		t.Errorf("HasLike after remove = %v, %v; want false, nil", has, err)
	}
}

func TestParticipationsConfirmedFilter(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	parts := []*models.Participation{
		{UserID: "u1", EventID: "e1", Status: models.ParticipationConfirmed, Tags: []string{"Aventura"}},
		{UserID: "u1", EventID: "e2", Status: models.ParticipationPending},
	}
	for _, p := range parts {
		if err := s.SaveParticipation(ctx, p); err != nil {
			t.Fatalf("SaveParticipation: %v", err)
		}
	}

	confirmed, err := s.GetUserParticipations(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUserParticipations: %v", err)
	}
	if len(confirmed) != 1 || confirmed[0] != "e1" {
		t.Errorf("got %v, want [e1]", confirmed)
	}

	all, err := s.ListUserParticipations(ctx, "u1")
	if err != nil {
		t.Fatalf("ListUserParticipations: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d participations, want 2", len(all))
	}
}

func TestListAllInteractions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddLike(ctx, "u1", "e1"); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	if err := s.AddLike(ctx, "u2", "e1"); err != nil {
		t.Fatalf("AddLike: %v", err)
	}
	// Confirmed participation joins the matrix; pending does not.
	if err := s.SaveParticipation(ctx, &models.Participation{
		UserID: "u1", EventID: "e2", Status: models.ParticipationConfirmed,
	}); err != nil {
		t.Fatalf("SaveParticipation: %v", err)
	}
	if err := s.SaveParticipation(ctx, &models.Participation{
		UserID: "u2", EventID: "e3", Status: models.ParticipationPending,
	}); err != nil {
		t.Fatalf("SaveParticipation: %v", err)
	}
	// A like duplicated by a confirmed participation counts once.
	if err := s.SaveParticipation(ctx, &models.Participation{
		UserID: "u2", EventID: "e1", Status: models.ParticipationConfirmed,
	}); err != nil {
		t.Fatalf("SaveParticipation: %v", err)
	}

	interactions, err := s.ListAllInteractions(ctx)
	if err != nil {
		t.Fatalf("ListAllInteractions: %v", err)
	}

	wantU1 := []string{"e1", "e2"}
	if got := interactions["u1"]; len(got) != 2 || got[0] != wantU1[0] || got[1] != wantU1[1] {
		t.Errorf("u1 interactions %v, want %v", got, wantU1)
	}
	if got := interactions["u2"]; len(got) != 1 || got[0] != "e1" {
		t.Errorf("u2 interactions %v, want [e1]", got)
	}
}

func TestRunGC(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	// In-memory databases have no value log to collect; a clean no-op
	// return is the contract.
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC: %v", err)
	}
}
