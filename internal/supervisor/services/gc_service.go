// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/metrics"
)

// GarbageCollector is the maintenance surface of the store.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService periodically runs Badger value-log garbage collection.
// Badger does not reclaim value-log space on its own; a supervised
// ticker loop is the documented pattern.
type StoreGCService struct {
	gc       GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewStoreGCService creates the GC worker.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStoreGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		gc:       gc,
		interval: interval,
		logger:   logger.With().Str("component", "store-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := s.gc.RunGC()
			metrics.RecordGCRun(err)
			if err != nil {
				s.logger.Warn().Err(err).Msg("Value-log GC round failed")
			} else {
				s.logger.Debug().Msg("Value-log GC round completed")
			}
		}
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *StoreGCService) String() string {
	return "store-gc"
}
