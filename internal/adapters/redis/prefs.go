// Package redis stores guidance preferences in Redis, for installs that
// share preferences across workstations.
package redis

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	backend "github.com/redis/go-redis/v9"

	"github.com/guidekit/guidekit/pkg/domain"
)

// Store implements ports.PreferenceStore backed by a Redis key.
type Store struct {
	client *backend.Client
	key    string
}

type Option func(*Store)

// WithKey overrides the Redis key the preferences live under.
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// New creates a Redis-backed preference store.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		key:    "guidekit:preferences",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Preferences loads the stored preferences. A missing key yields defaults,
// so first run works without any prior write.
func (s *Store) Preferences(ctx context.Context) (domain.GuidancePreference, error) {
	prefs := domain.DefaultPreferences()

	val, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == backend.Nil {
			return prefs, nil
		}
		return prefs, fmt.Errorf("failed to get preferences: %w", err)
	}

	if err := json.Unmarshal([]byte(val), &prefs); err != nil {
		return domain.DefaultPreferences(), nil
	}
	if _, perr := domain.ParseGuidanceMode(string(prefs.AIGuidanceMode)); perr != nil {
		prefs.AIGuidanceMode = domain.DefaultPreferences().AIGuidanceMode
	}
	return prefs, nil
}

// SetGuidanceMode updates the guidance policy and persists it.
func (s *Store) SetGuidanceMode(ctx context.Context, mode domain.GuidanceMode) error {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.AIGuidanceMode = mode
	return s.save(ctx, prefs)
}

// MarkFirstRunComplete records that the consent prompt has been answered.
func (s *Store) MarkFirstRunComplete(ctx context.Context) error {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.FirstRunCompleted = true
	return s.save(ctx, prefs)
}

// SetShowContextWarnings toggles non-blocking mismatch notices.
func (s *Store) SetShowContextWarnings(ctx context.Context, show bool) error {
	prefs, err := s.Preferences(ctx)
	if err != nil {
		return err
	}
	prefs.ShowContextWarnings = show
	return s.save(ctx, prefs)
}

func (s *Store) save(ctx context.Context, prefs domain.GuidancePreference) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
