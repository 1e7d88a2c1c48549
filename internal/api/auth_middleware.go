// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/kidsadvisor/kidsadvisor/internal/auth"
	"github.com/kidsadvisor/kidsadvisor/internal/models"
)

type identityContextKey struct{}

// IdentityFromContext returns the authenticated claims, or nil when the
// request was not authenticated.
func IdentityFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(identityContextKey{}).(*auth.Claims)
	return claims
}

// Authenticate returns a middleware that requires a valid Bearer token
// and stores its claims in the request context.
func Authenticate(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				NewResponseWriter(w, r).Unauthorized("Missing or malformed Authorization header")
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				NewResponseWriter(w, r).Unauthorized("Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that rejects non-admin identities.
// Must run after Authenticate.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := IdentityFromContext(r.Context())
			if claims == nil {
				NewResponseWriter(w, r).Unauthorized("Authentication required")
				return
			}
			if claims.Role != models.RoleAdmin {
				NewResponseWriter(w, r).Forbidden("Admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
