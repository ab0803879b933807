package pesa

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEntry struct {
	nats.KeyValueEntry
	value []byte
}

func (e fakeEntry) Value() []byte { return e.value }

type fakeBucket struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes int
	putErr  error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{data: make(map[string][]byte)}
}

func (b *fakeBucket) Get(key string) (nats.KeyValueEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.data[key]
	if !ok {
		return nil, nats.ErrKeyNotFound
	}

	return fakeEntry{value: value}, nil
}

func (b *fakeBucket) Put(key string, value []byte) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.putErr != nil {
		return 0, b.putErr
	}

	b.data[key] = value

	return uint64(len(b.data)), nil
}

func (b *fakeBucket) Delete(key string, _ ...nats.DeleteOpt) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deletes++

	if _, ok := b.data[key]; !ok {
		return nats.ErrKeyNotFound
	}

	delete(b.data, key)

	return nil
}

func TestNATSTokenStore_RoundTripAndExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bucket := newFakeBucket()
	store := NewNATSTokenStoreFromBucket(bucket, "")

	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	now := t0
	store.now = func() time.Time { return now }

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)

	require.NoError(t, store.Put(ctx, "abc", 3600))
	assert.Contains(t, bucket.data, "access_token")

	now = t0.Add(59 * time.Minute)

	token, err = store.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, "abc", token.AccessToken)
	assert.Equal(t, t0.Add(time.Hour), token.ExpiresAt())

	now = t0.Add(time.Hour)

	token, err = store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
	assert.NotContains(t, bucket.data, "access_token")
}

func TestNATSTokenStore_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bucket := newFakeBucket()
	store := NewNATSTokenStoreFromBucket(bucket, "tenant-a")

	require.NoError(t, store.Put(ctx, "abc", 60))
	assert.Contains(t, bucket.data, "tenant-a")

	require.NoError(t, store.Clear(ctx))
	// Clearing an absent key is not an error.
	require.NoError(t, store.Clear(ctx))

	token, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, token)
}

func TestNATSTokenStore_Errors(t *testing.T) {
	t.Parallel()

	bucket := newFakeBucket()
	store := NewNATSTokenStoreFromBucket(bucket, "")

	bucket.data["access_token"] = []byte("not json")

	_, err := store.Get(context.Background())
	require.ErrorIs(t, err, ErrMalformedStoreEntry)

	bucket.putErr = errors.New("bucket unavailable")

	err = store.Put(context.Background(), "abc", 60)
	require.ErrorIs(t, err, bucket.putErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Put(ctx, "abc", 60)
	require.ErrorIs(t, err, context.Canceled)

	_, err = store.Get(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewNATSTokenStore_RequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := NewNATSTokenStore(nil)
	require.ErrorIs(t, err, ErrNATSConfigRequired)
}
