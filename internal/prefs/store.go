package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// Backend is the persistence medium behind a Store.
type Backend interface {
	// Load returns the raw value for key and whether it exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save replaces the raw value for key.
	Save(ctx context.Context, key string, value []byte) error
	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)
}

// entry is the cached raw value of one key.
type entry struct {
	raw     []byte
	present bool
}

// Store is a typed key/value cache over a Backend. Each key is read from
// the backend at most once; writes go to the backend immediately and then
// update the cache and notify watchers.
//
// Thread-safety: Store is safe for concurrent use.
type Store struct {
	backend Backend
	log     *slog.Logger

	mu       sync.Mutex
	cache    map[string]entry
	watchers map[string]map[int]func([]byte)
	nextID   int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend:  backend,
		log:      slog.Default(),
		cache:    make(map[string]entry),
		watchers: make(map[string]map[int]func([]byte)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Close releases the backend if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.backend.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Keys lists keys known to the backend.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.backend.Keys(ctx)
}

// Get returns the value stored under key decoded as T. It falls back to
// def when the key is absent, unreadable or holds malformed JSON.
func Get[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok, err := s.raw(ctx, key)
	if err != nil {
		s.log.Warn("preference unreadable, using default", "key", key, "error", err)
		return def
	}
	if !ok {
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Debug("preference malformed, using default", "key", key, "error", err)
		return def
	}
	return v
}

// Set encodes v, saves it under key and updates the cached value.
// The cache is left untouched when the backend write fails.
func Set[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode preference %q: %w", key, err)
	}
	if err := s.backend.Save(ctx, key, raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = entry{raw: raw, present: true}
	fns := make([]func([]byte), 0, len(s.watchers[key]))
	for _, fn := range s.watchers[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(raw)
	}
	return nil
}

// Watch calls fn with the decoded value every time key is written through
// this Store. Malformed values are reported as def. The returned function
// removes the watcher.
func Watch[T any](s *Store, key string, def T, fn func(T)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	if s.watchers[key] == nil {
		s.watchers[key] = make(map[int]func([]byte))
	}
	s.watchers[key][id] = func(raw []byte) {
		v := def
		if err := json.Unmarshal(raw, &v); err != nil {
			v = def
		}
		fn(v)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers[key], id)
	}
}

// raw returns the cached bytes for key, reading the backend on first access.
func (s *Store) raw(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	e, cached := s.cache[key]
	s.mu.Unlock()
	if cached {
		return e.raw, e.present, nil
	}

	raw, ok, err := s.backend.Load(ctx, key)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A concurrent Set wins over the value read from the backend.
	if e, cached := s.cache[key]; cached {
		return e.raw, e.present, nil
	}
	s.cache[key] = entry{raw: raw, present: ok}
	return raw, ok, nil
}
