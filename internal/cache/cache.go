package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Store is a persistent key-value cache backed by a single JSON object on
// disk. Keys are logical resource identifiers (usually absolute URLs);
// values are raw page text or previously derived structures. Entries are
// treated as immutable once observed: there is no TTL, no size bound and
// no eviction, so the file grows monotonically over a long crawl.
//
// Lifecycle is open -> many Get/Put -> Flush. The file is read once at
// Open and rewritten wholesale at Flush; a missing or unreadable file
// degrades to an empty cache and is never an error.
type Store struct {
	log  zerolog.Logger
	path string

	mu      sync.Mutex
	entries map[string]json.RawMessage
	dirty   bool
}

// Open loads the cache file at path. Corrupt or absent content yields an
// empty store.
func Open(path string, log zerolog.Logger) *Store {
	s := &Store{
		log:     log.With().Str("module", "cache").Logger(),
		path:    path,
		entries: make(map[string]json.RawMessage),
	}

	body, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", path).Msg("cache file unreadable, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(body, &s.entries); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("cache file corrupt, starting empty")
		s.entries = make(map[string]json.RawMessage)
	}

	return s
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Get returns the raw JSON value stored under key.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.entries[key]
	return v, ok
}

// GetString returns the string value stored under key. A value of a
// different shape is treated as absent.
func (s *Store) GetString(key string) (string, bool) {
	raw, ok := s.Get(key)
	if !ok {
		return "", false
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn().Str("key", key).Msg("cached value is not a string")
		return "", false
	}
	return v, true
}

// GetInto decodes the value stored under key into out.
func (s *Store) GetInto(key string, out any) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to decode cached value")
		return false
	}
	return true
}

// Put stores value under key, replacing any previous entry.
func (s *Store) Put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cache value for %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = raw
	s.dirty = true
	return nil
}

// Flush persists the entire mapping to disk. It is a no-op when nothing
// changed since the last flush.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}

	body, err := json.Marshal(s.entries)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create cache directory %s", dir)
		}
	}

	if err := os.WriteFile(s.path, body, 0644); err != nil {
		return errors.Wrapf(err, "failed to write cache file %s", s.path)
	}

	s.dirty = false
	s.log.Debug().Int("entries", len(s.entries)).Str("path", s.path).Msg("cache flushed")
	return nil
}
