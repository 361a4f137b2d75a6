package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"SectorPulse/internal/domain/models"
	domrepo "SectorPulse/internal/domain/repository"
	"SectorPulse/pkg/cache"
)

// CacheSectorStore adapts a generic cache.Service (redis in production,
// memory in tests) to the SectorStore contract. The matrix lives under a
// "sector:" key, its write time under a sibling ":mtime" key; entries never
// expire on their own, matching the file backend.
type CacheSectorStore struct {
	cache  cache.Service
	closer io.Closer
}

// NewCacheSectorStore wraps a cache service; closer (may be nil) is released
// on Close, for backends that hold a connection.
func NewCacheSectorStore(c cache.Service, closer io.Closer) *CacheSectorStore {
	return &CacheSectorStore{cache: c, closer: closer}
}

// Close releases the backend connection, if any.
func (s *CacheSectorStore) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *CacheSectorStore) key(sector string) string {
	return cache.GenerateKey("sector", SafeSectorName(sector))
}

func (s *CacheSectorStore) mtimeKey(sector string) string {
	return s.key(sector) + ":mtime"
}

func (s *CacheSectorStore) Get(ctx context.Context, sector string) (models.ReturnMatrix, error) {
	var raw string
	if err := s.cache.Get(ctx, s.key(sector), &raw); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return models.ReturnMatrix{}, domrepo.ErrEntryNotFound
		}
		return models.ReturnMatrix{}, fmt.Errorf("read sector entry: %w", err)
	}
	var m models.ReturnMatrix
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return models.ReturnMatrix{}, fmt.Errorf("decode sector entry: %w", err)
	}
	return m, nil
}

func (s *CacheSectorStore) Put(ctx context.Context, sector string, m models.ReturnMatrix) error {
	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode sector entry: %w", err)
	}
	if err := s.cache.Set(ctx, s.key(sector), string(b), 0); err != nil {
		return fmt.Errorf("write sector entry: %w", err)
	}
	// mtime is advisory; a failed write only loses the age display
	_ = s.cache.Set(ctx, s.mtimeKey(sector), time.Now().UTC().Format(time.RFC3339Nano), 0)
	return nil
}

func (s *CacheSectorStore) Delete(ctx context.Context, sector string) error {
	return s.cache.Delete(ctx, s.key(sector), s.mtimeKey(sector))
}

func (s *CacheSectorStore) ModTime(ctx context.Context, sector string) (time.Time, bool) {
	var raw string
	if err := s.cache.Get(ctx, s.mtimeKey(sector), &raw); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
