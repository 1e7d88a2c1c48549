// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package recommend

import "errors"

// Sentinel errors for the recommendation engine. Callers match these with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrNotFound indicates a requested user or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientData indicates the corpus is too small to compute
	// similarity (fewer than two published events).
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidState indicates an operation was called out of order,
	// such as transforming documents before fitting the vectorizer.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation indicates invalid caller input, such as a
	// non-positive result limit.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates the persistence layer failed.
	ErrUnavailable = errors.New("storage unavailable")
)
