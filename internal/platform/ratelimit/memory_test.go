package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreEnforcesBurstPerKey(t *testing.T) {
	store := NewMemoryStore()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	rule := PerMinute("register", 5)

	for i := 0; i < 5; i++ {
		d, err := store.Allow(context.Background(), rule, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should pass", i+1)
	}
	d, err := store.Allow(context.Background(), rule, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, time.Duration(0))

	other, err := store.Allow(context.Background(), rule, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys must not share a bucket")
}

func TestMemoryStoreRefillsOverTime(t *testing.T) {
	store := NewMemoryStore()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	rule := PerMinute("login", 2)

	for i := 0; i < 2; i++ {
		d, _ := store.Allow(context.Background(), rule, "k")
		require.True(t, d.Allowed)
	}
	d, _ := store.Allow(context.Background(), rule, "k")
	require.False(t, d.Allowed)

	clock = clock.Add(31 * time.Second)
	d, _ = store.Allow(context.Background(), rule, "k")
	assert.True(t, d.Allowed)
}

func TestMemoryStoreRulesAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	a := PerMinute("a", 1)
	b := PerMinute("b", 1)

	d, _ := store.Allow(context.Background(), a, "k")
	require.True(t, d.Allowed)
	d, _ = store.Allow(context.Background(), b, "k")
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, store.Len())
}

func TestInvalidRuleAlwaysAllows(t *testing.T) {
	store := NewMemoryStore()
	d, err := store.Allow(context.Background(), Rule{Name: "off"}, "k")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, store.Len())
}
