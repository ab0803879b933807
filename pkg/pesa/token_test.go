package pesa_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pesakit/pesakit-go/pkg/pesa"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t
}

func TestToken_ValidAt(t *testing.T) {
	t.Parallel()

	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := &pesa.Token{AccessToken: "abc", IssuedAt: issued, TTLSeconds: 3600}

	assert.Equal(t, issued.Add(time.Hour), token.ExpiresAt())
	assert.True(t, token.ValidAt(issued))
	assert.True(t, token.ValidAt(issued.Add(time.Hour-time.Nanosecond)))
	assert.False(t, token.ValidAt(issued.Add(time.Hour)))
	assert.False(t, token.ValidAt(issued.Add(2*time.Hour)))

	var nilToken *pesa.Token
	assert.False(t, nilToken.ValidAt(issued))
	assert.True(t, nilToken.ExpiresAt().IsZero())

	empty := &pesa.Token{IssuedAt: issued, TTLSeconds: 3600}
	assert.False(t, empty.ValidAt(issued))
}

func TestMemoryTokenStore_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	t0 := clock.Now()
	store := pesa.NewMemoryTokenStoreWithClock(clock.Now)

	require.NoError(t, store.Put(ctx, "abc", 3600))

	tests := []struct {
		name    string
		at      time.Time
		present bool
	}{
		{"at issue", t0, true},
		{"just before expiry", t0.Add(3599 * time.Second), true},
		{"one nanosecond before expiry", t0.Add(time.Hour - time.Nanosecond), true},
	}

	for _, tc := range tests {
		clock.Set(tc.at)

		token, err := store.Get(ctx)
		require.NoError(t, err, tc.name)
		require.NotNil(t, token, tc.name)
		assert.Equal(t, "abc", token.AccessToken, tc.name)
	}

	clock.Set(t0.Add(time.Hour))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)

	// Evicted, so rewinding the clock does not bring it back.
	clock.Set(t0)

	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestMemoryTokenStore_GetIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	store := pesa.NewMemoryTokenStoreWithClock(clock.Now)

	require.NoError(t, store.Put(ctx, "abc", 60))

	for range 5 {
		token, err := store.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.Equal(t, "abc", token.AccessToken)
	}

	clock.Set(clock.Now().Add(time.Minute))

	for range 5 {
		token, err := store.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, token)
	}
}

func TestMemoryTokenStore_PutOverwritesAndClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := pesa.NewMemoryTokenStore()

	require.NoError(t, store.Put(ctx, "first", 60))
	require.NoError(t, store.Put(ctx, "second", 120))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "second", token.AccessToken)
	assert.Equal(t, int64(120), token.TTLSeconds)

	// Returned tokens are copies.
	token.AccessToken = "mutated"

	again, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", again.AccessToken)

	require.NoError(t, store.Clear(ctx))

	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestMemoryTokenStore_ZeroTTLIsNeverValid(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := pesa.NewMemoryTokenStore()

	require.NoError(t, store.Put(ctx, "abc", 0))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestMemoryTokenStore_Concurrency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := pesa.NewMemoryTokenStore()

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(3)

		go func() {
			defer wg.Done()

			_ = store.Put(ctx, "token", int64(60+i))
		}()

		go func() {
			defer wg.Done()

			token, err := store.Get(ctx)
			assert.NoError(t, err)

			if token != nil {
				assert.Equal(t, "token", token.AccessToken)
			}
		}()

		go func() {
			defer wg.Done()

			_ = store.Clear(ctx)
		}()
	}

	wg.Wait()
}
