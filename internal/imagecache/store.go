// Package imagecache keeps the content id -> resolved image URL mapping in
// memory and mirrors it to a single persisted record.
package imagecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/glabrego/curio-cli/internal/logger"
	"github.com/glabrego/curio-cli/internal/storage"
)

// Key is the persisted record name. Bump the suffix whenever the shape of
// resolved URLs changes so old values are not mixed with new ones.
const Key = "curio_img_cache_v13"

// KV is the persistence the cache writes through to.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]string
	kv      KV
	log     logger.Logger
}

// Load reads the persisted record into memory. A missing or unreadable record
// yields an empty cache; only a failing backend read is reported.
func Load(ctx context.Context, kv KV, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{entries: make(map[string]string), kv: kv, log: log}

	raw, err := kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load image cache: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &s.entries); err != nil {
		log.Warn("discarding unreadable image cache", logger.Error(err))
		s.entries = make(map[string]string)
	}
	return s, nil
}

func (s *Store) Get(contentID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.entries[contentID]
	return url, ok && url != ""
}

// Set records url for contentID and writes the whole mapping back. It reports
// whether the value was persisted; the in-memory value is kept either way.
func (s *Store) Set(ctx context.Context, contentID, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[contentID] = url
	data, err := json.Marshal(s.entries)
	if err != nil {
		s.log.Warn("image cache not persisted", logger.String("content_id", contentID), logger.Error(err))
		return false
	}
	if err := s.kv.Put(ctx, Key, string(data)); err != nil {
		s.log.Warn("image cache not persisted", logger.String("content_id", contentID), logger.Error(err))
		return false
	}
	return true
}

// Clear drops every cached resolution, in memory and on disk.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]string)
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("clear image cache: %w", err)
	}
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the current mapping.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}
