// KidsAdvisor - Family Events Platform and Recommendation Engine
// Copyright 2026 KidsAdvisor Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kidsadvisor/kidsadvisor

// Package store persists users, events, likes, and participations in an
// embedded Badger key-value database. Documents are JSON-encoded under
// typed key prefixes:
//
//	user:<userID>
//	event:<eventID>
//	like:<userID>:<eventID>
//	part:<userID>:<eventID>
//
// Missing documents are reported as recommend.ErrNotFound; storage
// failures are wrapped in recommend.ErrUnavailable so callers can map
// them uniformly.
package store

import (
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/kidsadvisor/kidsadvisor/internal/config"
	"github.com/kidsadvisor/kidsadvisor/internal/recommend"
)

const (
	userPrefix  = "user:"
	eventPrefix = "event:"
	likePrefix  = "like:"
	partPrefix  = "part:"
)

// Store is a Badger-backed document store.
type Store struct {
	db             *badger.DB
	logger         zerolog.Logger
	gcDiscardRatio float64
}

// Open opens (or creates) the database described by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg config.StoreConfig, logger zerolog.Logger) (*Store, error) {
	storeLogger := logger.With().Str("component", "store").Logger()

	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(badgerLogger{logger: storeLogger})
	if cfg.InMemory {
		opts.Dir = ""
		opts.ValueDir = ""
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", recommend.ErrUnavailable, err)
	}

	return &Store{
		db:             db,
		logger:         storeLogger,
		gcDiscardRatio: cfg.GCDiscardRatio,
	}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ready reports whether the database can serve reads.
func (s *Store) Ready() error {
	if s.db.IsClosed() {
		return fmt.Errorf("%w: database closed", recommend.ErrUnavailable)
	}
	err := s.db.View(func(*badger.Txn) error { return nil })
	if err != nil {
		return fmt.Errorf("%w: %v", recommend.ErrUnavailable, err)
	}
	return nil
}

// RunGC runs one round of Badger value-log garbage collection. Returns
// nil when there was nothing to rewrite.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(s.gcDiscardRatio)
	if errors.Is(err, badger.ErrNoRewrite) ||
		errors.Is(err, badger.ErrRejected) ||
		errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

// get reads and decodes one document into out.
func (s *Store) get(key string, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("%w: %s", recommend.ErrNotFound, key)
	}
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", recommend.ErrUnavailable, key, err)
	}
	return nil
}

// put encodes and writes one document.
func (s *Store) put(key string, doc any) error {
	data, err := marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", recommend.ErrUnavailable, key, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", recommend.ErrUnavailable, key, err)
	}
	return nil
}

// delete removes one key. Deleting an absent key is not an error.
func (s *Store) delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %v", recommend.ErrUnavailable, key, err)
	}
	return nil
}

// exists reports whether a key is present.
func (s *Store) exists(key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: checking %s: %v", recommend.ErrUnavailable, key, err)
	}
	return true, nil
}

// scan iterates every document under prefix, decoding each value with
// decode. decode receives the key suffix after the prefix.
func (s *Store) scan(prefix string, decode func(suffix string, val []byte) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			suffix := strings.TrimPrefix(string(item.Key()), prefix)
			if err := item.Value(func(val []byte) error {
				return decode(suffix, val)
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: scanning %s: %v", recommend.ErrUnavailable, prefix, err)
	}
	return nil
}

// scanKeys iterates every key under prefix without loading values.
func (s *Store) scanKeys(prefix string, visit func(suffix string) error) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			suffix := strings.TrimPrefix(string(it.Item().Key()), prefix)
			if err := visit(suffix); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: scanning %s: %v", recommend.ErrUnavailable, prefix, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, recommend.ErrNotFound)
}

// badgerLogger routes Badger's internal logging through zerolog. Badger
// is chatty at info level, so its info output is demoted to debug.
type badgerLogger struct {
	logger zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), args...)
}
