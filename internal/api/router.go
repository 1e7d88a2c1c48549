// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kidsadvisor/kidsadvisor/internal/middleware"
)

// Router wires handlers and middleware into the HTTP routing tree.
type Router struct {
	handlers      *Handlers
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router from the handler set and middleware factory.
func NewRouter(handlers *Handlers, chiMw *ChiMiddleware) *Router {
	return &Router{
		handlers:      handlers,
		chiMiddleware: chiMw,
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()
	h := router.handlers

	// Global middleware, applied to all routes in order.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	// Health endpoints: permissive rate limiting so monitoring probes
	// are never starved, no authentication.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Prometheus metrics endpoint.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authentication endpoints: strict rate limiting against brute force.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitAuth())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// Authenticated API surface.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(Authenticate(h.jwt))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", h.GetMe)
			r.Put("/tags", h.UpdateTags)
			r.Get("/participations", h.ListMyParticipations)
			r.Put("/friends/{userID}", h.AddFriend)
			r.Delete("/friends/{userID}", h.RemoveFriend)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Get("/{eventID}", h.GetEvent)

			// Event management is admin-only.
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin())
				r.With(router.chiMiddleware.RateLimitWrite()).Post("/", h.CreateEvent)
				r.With(router.chiMiddleware.RateLimitWrite()).Put("/{eventID}", h.UpdateEvent)
				r.With(router.chiMiddleware.RateLimitWrite()).Delete("/{eventID}", h.DeleteEvent)
			})

			r.Post("/{eventID}/like", h.LikeEvent)
			r.Delete("/{eventID}/like", h.UnlikeEvent)
			r.Post("/{eventID}/participations", h.JoinEvent)
			r.Post("/{eventID}/participations/confirm", h.ConfirmParticipation)
		})

		// Recommendation computations rebuild the corpus per request, so
		// they carry their own rate limit.
		r.Route("/recommendations", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitRecommend())
			r.Get("/user/{userID}", h.RecommendHybrid)
			r.Get("/user/{userID}/content", h.RecommendContent)
			r.Get("/user/{userID}/collaborative", h.RecommendCollaborative)
			r.Get("/user/{userID}/related", h.RecommendAffinity)
			r.Get("/related/{eventID}", h.RecommendRelated)
		})

		r.Route("/gamification", func(r chi.Router) {
			r.Get("/me", h.GetMyProgress)
			r.Get("/leaderboard", h.GetLeaderboard)
		})
	})

	return r
}
