package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guidekit/guidekit/internal/adapters/redis"
	"github.com/guidekit/guidekit/pkg/domain"
)

func newStore(t *testing.T) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestStore_MissingKeyYieldsDefaults(t *testing.T) {
	store, _ := newStore(t)

	p, err := store.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), p)
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	require.NoError(t, store.SetGuidanceMode(ctx, domain.GuidanceOn))
	require.NoError(t, store.MarkFirstRunComplete(ctx))
	require.NoError(t, store.SetShowContextWarnings(ctx, false))

	p, err := store.Preferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.GuidanceOn, p.AIGuidanceMode)
	assert.True(t, p.FirstRunCompleted)
	assert.False(t, p.ShowContextWarnings)
}

func TestStore_CorruptValueYieldsDefaults(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("guidekit:preferences", "{not json"))

	p, err := store.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPreferences(), p)
}

func TestStore_InvalidStoredModeFallsBack(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("guidekit:preferences",
		`{"ai_guidance_mode":"LOUD","first_run_completed":true,"show_context_warnings":false}`))

	p, err := store.Preferences(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.GuidanceAsk, p.AIGuidanceMode)
	assert.True(t, p.FirstRunCompleted)
	assert.False(t, p.ShowContextWarnings)
}

func TestStore_WithKey(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithKey("custom:prefs"))
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.MarkFirstRunComplete(context.Background()))
	assert.True(t, mr.Exists("custom:prefs"))
}
