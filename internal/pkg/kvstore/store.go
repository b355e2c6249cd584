package kvstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/pkg/apperrors"
)

var (
	storageWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_storage_writes_total",
			Help: "Collection writes by key and result",
		},
		[]string{"key", "result"},
	)

	storageCorruptReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_storage_corrupt_reads_total",
			Help: "Reads that found an undecodable value and fell back to the default",
		},
		[]string{"key"},
	)
)

// Store reads and writes JSON encoded collections through a Backend
type Store struct {
	backend Backend
	logger  zerolog.Logger
}

// NewStore wraps backend
func NewStore(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With().Str("component", "kvstore").Str("backend", backend.Name()).Logger(),
	}
}

// Load returns the value stored under key, or def when it is absent or cannot be decoded.
// Corrupt values are logged and never surface as errors.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to read collection, using default")
		}
		return def
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		storageCorruptReads.WithLabelValues(key).Inc()
		s.logger.Warn().Err(err).Str("key", key).Msg("Stored collection is corrupt, using default")
		return def
	}
	return value
}

// Write encodes value and stores it under key, returning a storage error on failure
func (s *Store) Write(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		storageWrites.WithLabelValues(key, "error").Inc()
		return apperrors.NewStorageError(key, err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		storageWrites.WithLabelValues(key, "error").Inc()
		return apperrors.NewStorageError(key, err)
	}
	storageWrites.WithLabelValues(key, "ok").Inc()
	return nil
}

// Save is the best-effort write used after every mutation.
// Failures are logged and swallowed, the in-memory state stays authoritative.
func (s *Store) Save(ctx context.Context, key string, value interface{}) {
	if err := s.Write(ctx, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to persist collection")
	}
}

// Remove deletes key, logging failures
func (s *Store) Remove(ctx context.Context, key string) {
	if err := s.backend.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete collection")
	}
}

// Close closes the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
