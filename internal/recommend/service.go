// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/metrics"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

// DataProvider supplies the engine with users, the published-event corpus,
// and interaction histories. Implementations wrap persistence failures in
// ErrUnavailable and missing entities in ErrNotFound.
type DataProvider interface {
	// GetUser returns the user with the given ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListPublishedEvents returns every published event.
	ListPublishedEvents(ctx context.Context) ([]models.Event, error)

	// GetUserLikes returns the event IDs the user liked.
	GetUserLikes(ctx context.Context, userID string) ([]string, error)

	// GetUserParticipations returns the event IDs of the user's
	// confirmed participations.
	GetUserParticipations(ctx context.Context, userID string) ([]string, error)

	// ListAllInteractions returns, for every user, the union of liked
	// and confirmed-participation event IDs.
	ListAllInteractions(ctx context.Context) (map[string][]string, error)
}

// ServiceConfig tunes the recommendation service.
type ServiceConfig struct {
	// ContentWeight and CollaborativeWeight are the hybrid blend weights.
	// Canonical values: 0.7 and 0.3.
	ContentWeight       float64
	CollaborativeWeight float64

	// DefaultLimit is used when callers request zero results.
	DefaultLimit int

	// Neighbors is how many of the most similar users the collaborative
	// path consults.
	Neighbors int
}

// DefaultServiceConfig returns the canonical engine configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ContentWeight:       0.7,
		CollaborativeWeight: 0.3,
		DefaultLimit:        10,
		Neighbors:           5,
	}
}

// Service orchestrates the recommendation paths. It holds no per-user
// state: the interaction profile, vectorizer, and score maps are rebuilt
// on every request so recommendations always reflect current data.
type Service struct {
	provider   DataProvider
	config     ServiceConfig
	logger     zerolog.Logger
	normalizer *TextNormalizer
	affinity   *AffinityScorer
}

// NewService creates a recommendation service.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(provider DataProvider, config ServiceConfig, logger zerolog.Logger) (*Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: data provider is required", ErrValidation)
	}
	if config.ContentWeight < 0 || config.CollaborativeWeight < 0 {
		return nil, fmt.Errorf("%w: blend weights must be non-negative", ErrValidation)
	}
	if config.ContentWeight+config.CollaborativeWeight == 0 {
		return nil, fmt.Errorf("%w: at least one blend weight must be positive", ErrValidation)
	}
	if config.DefaultLimit < 1 {
		config.DefaultLimit = DefaultServiceConfig().DefaultLimit
	}
	if config.Neighbors < 1 {
		config.Neighbors = DefaultServiceConfig().Neighbors
	}

	return &Service{
		provider:   provider,
		config:     config,
		logger:     logger.With().Str("component", "recommend").Logger(),
		normalizer: NewTextNormalizer(),
		affinity:   NewAffinityScorer(),
	}, nil
}

// HybridRecommendations blends the content and collaborative paths with
// the configured weights. Either path may degrade to an empty score map;
// when both are empty the result is an empty list, never an error.
// A limit of 0 applies the configured default.
func (s *Service) HybridRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	user, profile, events, err := s.loadRequestState(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, method := s.contentScores(ctx, user, profile, events)
	collaborative := s.collaborativeScores(ctx, profile)

	combined := Blend([]WeightedScores{
		{Scores: content, Weight: s.config.ContentWeight},
		{Scores: collaborative, Weight: s.config.CollaborativeWeight},
	})

	ranked, err := Rank(combined, profile.ExclusionSet(), limit)
	if err != nil {
		return nil, err
	}

	// A pure affinity fallback keeps its own method tag; anything blended
	// from learned signals is hybrid.
	tag := MethodHybrid
	if method == MethodAffinity && len(collaborative) == 0 {
		tag = MethodAffinity
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("content_candidates", len(content)).
		Int("collaborative_candidates", len(collaborative)).
		Int("results", len(ranked)).
		Msg("Hybrid recommendations computed")

	return toRecommendations(ranked, tag), nil
}

// ContentRecommendations ranks events by TF-IDF similarity to the user's
// interaction history. Users without history fall back to affinity scoring
// over their declared preferred tags.
func (s *Service) ContentRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	user, profile, events, err := s.loadRequestState(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores, method := s.contentScores(ctx, user, profile, events)
	ranked, err := Rank(scores, profile.ExclusionSet(), limit)
	if err != nil {
		return nil, err
	}
	return toRecommendations(ranked, method), nil
}

// CollaborativeRecommendations ranks events liked or attended by the
// user's most similar peers.
func (s *Service) CollaborativeRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	if _, err := s.provider.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	scores := s.collaborativeScores(ctx, profile)
	ranked, err := Rank(scores, profile.ExclusionSet(), limit)
	if err != nil {
		return nil, err
	}
	return toRecommendations(ranked, MethodCollaborative), nil
}

// AffinityRecommendations ranks events for the user with the explainable
// tag/category point system instead of learned similarity. The taste
// profile is derived from the tags and categories of the user's liked and
// attended events, unioned with their declared preferred tags. This path
// has no other signal to blend with, so having nothing to rank is
// ErrInsufficientData rather than an empty success.
func (s *Service) AffinityRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	user, profile, events, err := s.loadRequestState(ctx, userID)
	if err != nil {
		return nil, err
	}

	taste := buildTasteProfile(user, profile, events)
	if taste.Empty() {
		return nil, fmt.Errorf("%w: user %s has no interactions or preferred tags", ErrInsufficientData, userID)
	}

	scores := s.affinity.Score(taste, events, profile.ExclusionSet())
	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: no candidate event shares tags or categories with user %s", ErrInsufficientData, userID)
	}

	ranked, err := Rank(scores, profile.ExclusionSet(), limit)
	if err != nil {
		return nil, err
	}
	return toRecommendations(ranked, MethodAffinity), nil
}

// buildTasteProfile derives tag and category affinities from the events
// the user interacted with, plus their declared preferred tags. Output
// slices are sorted so downstream scoring is deterministic.
func buildTasteProfile(user *models.User, profile *UserInteractionProfile, events []models.Event) TasteProfile {
	interacted := profile.ExclusionSet()

	tagSet := make(map[string]struct{})
	catSet := make(map[string]struct{})
	for i := range events {
		ev := &events[i]
		if _, ok := interacted[ev.ID]; !ok {
			continue
		}
		for _, t := range ev.Tags {
			tagSet[t] = struct{}{}
		}
		if ev.CategoryPrimary != "" {
			catSet[ev.CategoryPrimary] = struct{}{}
		}
		if ev.CategorySecondary != "" {
			catSet[ev.CategorySecondary] = struct{}{}
		}
	}
	for _, t := range user.PreferredTags {
		tagSet[t] = struct{}{}
	}

	taste := TasteProfile{
		Tags:       make([]string, 0, len(tagSet)),
		Categories: make([]string, 0, len(catSet)),
	}
	for t := range tagSet {
		taste.Tags = append(taste.Tags, t)
	}
	for c := range catSet {
		taste.Categories = append(taste.Categories, c)
	}
	sort.Strings(taste.Tags)
	sort.Strings(taste.Categories)
	return taste
}

// RelatedEvents ranks published events by TF-IDF similarity to the anchor
// event. Returns ErrNotFound when the anchor is missing or unpublished and
// ErrInsufficientData when fewer than two published events exist.
func (s *Service) RelatedEvents(ctx context.Context, eventID string, limit int) ([]Recommendation, error) {
	limit, err := s.resolveLimit(limit)
	if err != nil {
		return nil, err
	}

	events, err := s.provider.ListPublishedEvents(ctx)
	if err != nil {
		return nil, err
	}

	anchorIdx := -1
	for i := range events {
		if events[i].ID == eventID {
			anchorIdx = i
			break
		}
	}
	if anchorIdx < 0 {
		return nil, fmt.Errorf("%w: event %s", ErrNotFound, eventID)
	}
	if len(events) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 published events, have %d", ErrInsufficientData, len(events))
	}

	corpus, ids := s.corpusTexts(events)
	vectorizer := NewDocumentVectorizer()
	vectors := vectorizer.FitTransform(corpus)

	corpusVectors := make(map[string]Vector, len(ids))
	var anchor Vector
	for i, id := range ids {
		if id == eventID {
			anchor = vectors[i]
			continue
		}
		corpusVectors[id] = vectors[i]
	}

	scores := ScoreAgainstCorpus(anchor, corpusVectors)
	ranked, err := Rank(scores, nil, limit)
	if err != nil {
		return nil, err
	}
	return toRecommendations(ranked, MethodContent), nil
}

// resolveLimit applies the default for zero and rejects negatives.
func (s *Service) resolveLimit(limit int) (int, error) {
	if limit == 0 {
		return s.config.DefaultLimit, nil
	}
	if limit < 0 {
		return 0, fmt.Errorf("%w: limit must be positive, got %d", ErrValidation, limit)
	}
	return limit, nil
}

// loadRequestState fetches the user, rebuilds the interaction profile, and
// loads the published-event corpus.
func (s *Service) loadRequestState(ctx context.Context, userID string) (*models.User, *UserInteractionProfile, []models.Event, error) {
	user, err := s.provider.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	profile, err := s.buildProfile(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	events, err := s.provider.ListPublishedEvents(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	return user, profile, events, nil
}

// buildProfile assembles the user's interaction profile fresh from storage.
func (s *Service) buildProfile(ctx context.Context, userID string) (*UserInteractionProfile, error) {
	likes, err := s.provider.GetUserLikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	participations, err := s.provider.GetUserParticipations(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserInteractionProfile{
		UserID:   userID,
		Liked:    likes,
		Attended: participations,
	}, nil
}

// contentScores produces the content-path score map and the method tag
// that describes how it was computed. Degradation order: interaction
// history via TF-IDF, then declared preferred tags via affinity rules,
// then an empty map.
func (s *Service) contentScores(ctx context.Context, user *models.User, profile *UserInteractionProfile, events []models.Event) (ScoreMap, string) {
	if len(events) == 0 {
		return ScoreMap{}, MethodContent
	}

	exclude := profile.ExclusionSet()

	if profile.Empty() {
		if len(user.PreferredTags) == 0 {
			return ScoreMap{}, MethodContent
		}
		taste := TasteProfile{Tags: user.PreferredTags}
		return s.affinity.Score(taste, events, exclude), MethodAffinity
	}

	corpus, ids := s.corpusTexts(events)
	vectorizer := NewDocumentVectorizer()
	vectors := vectorizer.FitTransform(corpus)

	corpusVectors := make(map[string]Vector, len(ids))
	textByID := make(map[string]string, len(ids))
	for i, id := range ids {
		corpusVectors[id] = vectors[i]
		textByID[id] = corpus[i]
	}

	// Synthesize one profile document from all interacted events and
	// transform it with the corpus-fitted vectorizer.
	var parts []string
	for _, id := range profile.InteractedIDs() {
		if text, ok := textByID[id]; ok && text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return ScoreMap{}, MethodContent
	}

	queryVectors, err := vectorizer.Transform([]string{strings.Join(parts, " ")})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Content path degraded to empty scores")
		metrics.RecordDegradation(MethodContent)
		return ScoreMap{}, MethodContent
	}

	scores := ScoreAgainstCorpus(queryVectors[0], corpusVectors)
	for id := range exclude {
		delete(scores, id)
	}
	return scores, MethodContent
}

// collaborativeScores produces the collaborative-path score map from a
// binary user-by-event interaction matrix. Any failure or lack of data
// degrades to an empty map rather than an error.
func (s *Service) collaborativeScores(ctx context.Context, profile *UserInteractionProfile) ScoreMap {
	if profile.Empty() {
		return ScoreMap{}
	}

	interactions, err := s.provider.ListAllInteractions(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Collaborative path degraded to empty scores")
		metrics.RecordDegradation(MethodCollaborative)
		return ScoreMap{}
	}

	target := make(Vector, len(profile.Liked)+len(profile.Attended))
	for _, id := range profile.InteractedIDs() {
		target[id] = 1
	}

	neighbors := s.nearestUsers(profile.UserID, target, interactions)
	if len(neighbors) == 0 {
		return ScoreMap{}
	}

	exclude := profile.ExclusionSet()
	scores := make(ScoreMap)
	for _, n := range neighbors {
		for _, eventID := range interactions[n.userID] {
			if _, skip := exclude[eventID]; skip {
				continue
			}
			scores[eventID] += n.similarity
		}
	}
	return scores
}

type neighbor struct {
	userID     string
	similarity float64
}

// nearestUsers returns up to Neighbors users with strictly positive cosine
// similarity to the target interaction vector, most similar first. Ties
// break by user ID ascending for determinism.
func (s *Service) nearestUsers(targetID string, target Vector, interactions map[string][]string) []neighbor {
	neighbors := make([]neighbor, 0, len(interactions))
	for userID, eventIDs := range interactions {
		if userID == targetID || len(eventIDs) == 0 {
			continue
		}
		vec := make(Vector, len(eventIDs))
		for _, id := range eventIDs {
			vec[id] = 1
		}
		if sim := Cosine(target, vec); sim > 0 {
			neighbors = append(neighbors, neighbor{userID: userID, similarity: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].similarity != neighbors[j].similarity {
			return neighbors[i].similarity > neighbors[j].similarity
		}
		return neighbors[i].userID < neighbors[j].userID
	})

	if len(neighbors) > s.config.Neighbors {
		neighbors = neighbors[:s.config.Neighbors]
	}
	return neighbors
}

// corpusTexts builds the normalized corpus document for every event,
// returning texts and event IDs in matching order. The document combines
// curator tags, community-voted tags, both category names, and the event
// detail (or name when no detail exists).
func (s *Service) corpusTexts(events []models.Event) ([]string, []string) {
	texts := make([]string, len(events))
	ids := make([]string, len(events))
	for i := range events {
		ev := &events[i]
		var parts []string
		parts = append(parts, ev.Tags...)
		for _, tag := range sortedTagKeys(ev.CommunityTagVotes) {
			parts = append(parts, tag)
		}
		if ev.CategoryPrimary != "" {
			parts = append(parts, ev.CategoryPrimary)
		}
		if ev.CategorySecondary != "" {
			parts = append(parts, ev.CategorySecondary)
		}
		if ev.Detail != "" {
			parts = append(parts, ev.Detail)
		} else {
			parts = append(parts, ev.Name)
		}

		texts[i] = s.normalizer.Normalize(strings.Join(parts, " "))
		ids[i] = ev.ID
	}
	return texts, ids
}

func sortedTagKeys(votes map[string]int) []string {
	keys := make([]string, 0, len(votes))
	for tag := range votes {
		keys = append(keys, tag)
	}
	sort.Strings(keys)
	return keys
}

func toRecommendations(ranked []ScoredEvent, method string) []Recommendation {
	recs := make([]Recommendation, len(ranked))
	for i, r := range ranked {
		recs[i] = Recommendation{
			EventID: r.EventID,
			Score:   roundScore(r.Score),
			Method:  method,
		}
	}
	return recs
}
