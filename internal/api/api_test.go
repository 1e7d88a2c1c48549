// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/auth"
	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/gamification"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
	"github.com/kidsadvisor/kidsadvisor/internal/store"
)

type testServer struct {
	handler http.Handler
	store   *store.Store
	jwt     *auth.JWTManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.Nop()

	st, err := store.Open(config.StoreConfig{InMemory: true, GCDiscardRatio: 0.5}, logger)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	recommender, err := recommend.NewService(st, recommend.DefaultServiceConfig(), logger)
	if err != nil {
		t.Fatalf("recommend.NewService: %v", err)
	}
	game := gamification.NewService(st, logger)

	jwtManager, err := auth.NewJWTManager("test-secret-at-least-32-characters-long", time.Hour)
	if err != nil {
		t.Fatalf("auth.NewJWTManager: %v", err)
	}

	cfg := config.Config{
		Security: config.SecurityConfig{BcryptCost: 4},
		API:      config.APIConfig{DefaultLimit: 20, MaxLimit: 100},
	}

	handlers := NewHandlers(st, recommender, game, jwtManager, cfg, logger)
	chiMw := NewChiMiddlewareFromSecurity([]string{"*"}, 0, time.Minute, true)
	router := NewRouter(handlers, chiMw)

	return &testServer{
		handler: router.Setup(),
		store:   st,
		jwt:     jwtManager,
	}
}

// seedUser stores a user and returns a valid token for it.
func (ts *testServer) seedUser(t *testing.T, user *models.User) string {
	t.Helper()
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := ts.store.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}
	token, err := ts.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding envelope: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:         "ana@example.com",
		Username:      "ana",
		Password:      "s3nha-segura",
		PreferredTags: []string{"Aventura", "Teatro"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Fatal("register envelope not successful")
	}

	// Duplicate email is a conflict.
	rec = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:         "ana@example.com",
		Username:      "ana2",
		Password:      "s3nha-segura",
		PreferredTags: []string{"Aventura"},
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status %d, want 409", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    "ana@example.com",
		Password: "s3nha-segura",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    "ana@example.com",
		Password: "errada-mesmo",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong-password login status %d, want 401", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "missing email",
			req:  RegisterRequest{Username: "ana", Password: "s3nha-segura", PreferredTags: []string{"Aventura"}},
		},
		{
			name: "unknown tag",
			req:  RegisterRequest{Email: "a@b.com", Username: "ana", Password: "s3nha-segura", PreferredTags: []string{"Bungee"}},
		},
		{
			name: "short password",
			req:  RegisterRequest{Email: "a@b.com", Username: "ana", Password: "curta", PreferredTags: []string{"Aventura"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d, want 400", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != ErrCodeValidationFailed {
				t.Errorf("error envelope %+v, want VALIDATION_ERROR", resp.Error)
			}
		})
	}
}

func TestAuthenticationRequired(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	paths := []string{
		"/api/v1/users/me",
		"/api/v1/events",
		"/api/v1/recommendations/user/u1",
		"/api/v1/gamification/me",
	}
	for _, path := range paths {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status %d, want 401", path, rec.Code)
		}
	}
}

func TestEventAdminAuthorization(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	userToken := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})
	adminToken := ts.seedUser(t, &models.User{ID: "a1", Username: "root", Role: models.RoleAdmin})

	event := EventRequest{
		Name:            "Trilha na serra",
		Detail:          "Caminhada guiada",
		Tags:            []string{"Aventura"},
		CategoryPrimary: "Aventura",
		Published:       true,
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/events", userToken, event)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin create status %d, want 403", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/events", adminToken, event)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDraftEventVisibility(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	userToken := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})
	adminToken := ts.seedUser(t, &models.User{ID: "a1", Username: "root", Role: models.RoleAdmin})

	if err := ts.store.SaveEvent(context.Background(), &models.Event{
		ID: "draft-1", Name: "Rascunho", Published: false,
	}); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/events/draft-1", userToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("user draft access status %d, want 404", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/events/draft-1", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("admin draft access status %d, want 200", rec.Code)
	}
}

func TestLikeFlowGrantsProgress(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})

	if err := ts.store.SaveEvent(context.Background(), &models.Event{
		ID: "e1", Name: "Trilha", Published: true,
	}); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/events/e1/like", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("like status %d, body %s", rec.Code, rec.Body.String())
	}

	user, err := ts.store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.XP != gamification.XPPerLike {
		t.Errorf("XP %d, want %d", user.XP, gamification.XPPerLike)
	}
	if len(user.Badges) != 1 || user.Badges[0] != gamification.BadgeFirstEvent {
		t.Errorf("badges %v, want [%s]", user.Badges, gamification.BadgeFirstEvent)
	}

	// Second like is rejected, so XP cannot be farmed.
	rec = ts.do(t, http.MethodPost, "/api/v1/events/e1/like", token, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("double like status %d, want 409", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/events/e1/like", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unlike status %d, body %s", rec.Code, rec.Body.String())
	}
	user, err = ts.store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user.XP != 0 {
		t.Errorf("XP after unlike %d, want 0", user.XP)
	}
}

func TestParticipationConfirmAggregatesVotes(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})

	if err := ts.store.SaveEvent(context.Background(), &models.Event{
		ID: "e1", Name: "Trilha", Published: true,
	}); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}

	rec := ts.do(t, http.MethodPost, "/api/v1/events/e1/participations", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("join status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/events/e1/participations/confirm", token,
		ConfirmParticipationRequest{Tags: []string{"Aventura", "Ar Livre"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status %d, body %s", rec.Code, rec.Body.String())
	}

	event, err := ts.store.GetEvent(context.Background(), "e1")
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if event.CommunityTagVotes["Aventura"] != 1 || event.CommunityTagVotes["Ar Livre"] != 1 {
		t.Errorf("community votes %v, want 1 each for Aventura and Ar Livre", event.CommunityTagVotes)
	}

	// Double confirmation is a conflict and must not double the votes.
	rec = ts.do(t, http.MethodPost, "/api/v1/events/e1/participations/confirm", token,
		ConfirmParticipationRequest{Tags: []string{"Aventura"}})
	if rec.Code != http.StatusConflict {
		t.Errorf("double confirm status %d, want 409", rec.Code)
	}
}

func TestRecommendationEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})
	otherToken := ts.seedUser(t, &models.User{ID: "u2", Username: "bia"})

	ctx := context.Background()
	events := []*models.Event{
		{ID: "e1", Name: "Trilha", Detail: "Trilha de aventura pela floresta", Tags: []string{"Aventura"}, Published: true},
		{ID: "e2", Name: "Arvorismo", Detail: "Circuito de aventura na floresta", Tags: []string{"Aventura"}, Published: true},
		{ID: "e3", Name: "Teatro", Detail: "Espetáculo musical infantil", Tags: []string{"Teatro"}, Published: true},
	}
	for _, ev := range events {
		if err := ts.store.SaveEvent(ctx, ev); err != nil {
			t.Fatalf("SaveEvent: %v", err)
		}
	}
	if err := ts.store.AddLike(ctx, "u1", "e1"); err != nil {
		t.Fatalf("AddLike: %v", err)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("hybrid status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if !resp.Success {
		t.Error("hybrid envelope not successful")
	}

	// A user cannot read another user's recommendations.
	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1", otherToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-user status %d, want 403", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1/content?limit=1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("content status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1?limit=nope", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status %d, want 400", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/related/e1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("related status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/related/ghost", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("related unknown anchor status %d, want 404", rec.Code)
	}

	// Affinity path: u1's taste (Aventura, via the liked e1) matches e2.
	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u1/related", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("affinity status %d, body %s", rec.Code, rec.Body.String())
	}

	// u2 has no likes and no preferred tags, so the affinity path has
	// nothing to rank with.
	rec = ts.do(t, http.MethodGet, "/api/v1/recommendations/user/u2/related", otherToken, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("affinity no-signal status %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}

func TestRelatedInsufficientCorpus(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})

	if err := ts.store.SaveEvent(context.Background(), &models.Event{
		ID: "only", Name: "Único", Published: true,
	}); err != nil {
		t.Fatalf("SaveEvent: %v", err)
	}

	rec := ts.do(t, http.MethodGet, "/api/v1/recommendations/related/only", token, nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeInsufficientData {
		t.Errorf("error envelope %+v, want INSUFFICIENT_DATA", resp.Error)
	}
}

func TestGamificationEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana", XP: 150})
	ts.seedUser(t, &models.User{ID: "u2", Username: "bia", XP: 400})

	rec := ts.do(t, http.MethodGet, "/api/v1/gamification/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/gamification/leaderboard", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard status %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	entries, ok := resp.Data.([]any)
	if !ok || len(entries) != 2 {
		t.Fatalf("leaderboard data %v, want 2 entries", resp.Data)
	}
	first, _ := entries[0].(map[string]any)
	if first["username"] != "bia" {
		t.Errorf("top entry %v, want bia", first)
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status %d, want 200", path, rec.Code)
		}
	}
}

func TestUpdateTagsAndFriends(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	token := ts.seedUser(t, &models.User{ID: "u1", Username: "ana"})
	ts.seedUser(t, &models.User{ID: "u2", Username: "bia"})

	rec := ts.do(t, http.MethodPut, "/api/v1/users/me/tags", token,
		UpdateTagsRequest{PreferredTags: []string{"Teatro", "Musical"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("update tags status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/users/me/friends/u2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add friend status %d, body %s", rec.Code, rec.Body.String())
	}
	user, err := ts.store.GetUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if len(user.Friends) != 1 || user.Friends[0] != "u2" {
		t.Errorf("friends %v, want [u2]", user.Friends)
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/users/me/friends/u1", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self friend status %d, want 400", rec.Code)
	}

	rec = ts.do(t, http.MethodPut, "/api/v1/users/me/friends/ghost", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown friend status %d, want 404", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/users/me/friends/u2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove friend status %d, body %s", rec.Code, rec.Body.String())
	}
}
