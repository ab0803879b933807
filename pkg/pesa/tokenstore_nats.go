package pesa

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pesakit/pesakit-go/internal/constants"
)

// KeyValueBucket is the subset of nats.KeyValue the token store uses.
type KeyValueBucket interface {
	Get(key string) (nats.KeyValueEntry, error)
	Put(key string, value []byte) (uint64, error)
	Delete(key string, opts ...nats.DeleteOpt) error
}

// NATSKVConfig configures a JetStream KV backed token store.
type NATSKVConfig struct {
	// URL is the NATS server URL. Defaults to nats.DefaultURL.
	URL string
	// Bucket is the KV bucket name. Defaults to "pesakit_tokens".
	Bucket string
	// Key is the entry key. Defaults to "access_token".
	Key string
	// TTL is the bucket max age used when the bucket has to be created.
	TTL time.Duration
	// Options are passed to nats.Connect.
	Options []nats.Option
}

// NATSTokenStore keeps the token in a JetStream KV bucket so that separate
// processes sharing credentials can reuse one token.
type NATSTokenStore struct {
	kv   KeyValueBucket
	conn *nats.Conn
	key  string
	now  func() time.Time
}

// NewNATSTokenStore connects to NATS and opens (or creates) the bucket.
func NewNATSTokenStore(config *NATSKVConfig) (*NATSTokenStore, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	serverURL := config.URL
	if serverURL == "" {
		serverURL = nats.DefaultURL
	}

	bucket := config.Bucket
	if bucket == "" {
		bucket = constants.DefaultNATSBucket
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = constants.DefaultNATSTTL
	}

	options := append([]nats.Option{nats.Timeout(constants.ShortHTTPTimeout)}, config.Options...)

	conn, err := nats.Connect(serverURL, options...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening JetStream context: %w", err)
	}

	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:      bucket,
			Description: "pesakit bearer tokens",
			TTL:         ttl,
			History:     1,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("opening KV bucket %s: %w", bucket, err)
	}

	store := NewNATSTokenStoreFromBucket(kv, config.Key)
	store.conn = conn

	return store, nil
}

// NewNATSTokenStoreFromBucket wraps an already opened bucket.
func NewNATSTokenStoreFromBucket(kv KeyValueBucket, key string) *NATSTokenStore {
	if key == "" {
		key = constants.DefaultTokenKey
	}

	return &NATSTokenStore{kv: kv, key: key, now: time.Now}
}

// Put writes the token as one JSON value.
func (s *NATSTokenStore) Put(ctx context.Context, accessToken string, ttlSeconds int64) error {
	err := ctx.Err()
	if err != nil {
		return err
	}

	data, err := json.Marshal(&Token{
		AccessToken: accessToken,
		IssuedAt:    s.now().UTC(),
		TTLSeconds:  ttlSeconds,
	})
	if err != nil {
		return fmt.Errorf("encoding token entry: %w", err)
	}

	_, err = s.kv.Put(s.key, data)
	if err != nil {
		return fmt.Errorf("writing token entry: %w", err)
	}

	return nil
}

// Get reads the token and evicts it once expired.
func (s *NATSTokenStore) Get(ctx context.Context) (*Token, error) {
	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	entry, err := s.kv.Get(s.key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading token entry: %w", err)
	}

	var token Token

	err = json.Unmarshal(entry.Value(), &token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedStoreEntry, err)
	}

	if !token.ValidAt(s.now()) {
		_ = s.kv.Delete(s.key)

		return nil, nil
	}

	return &token, nil
}

// Clear deletes the token entry.
func (s *NATSTokenStore) Clear(_ context.Context) error {
	err := s.kv.Delete(s.key)
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting token entry: %w", err)
	}

	return nil
}

// Close releases the NATS connection when the store owns it.
func (s *NATSTokenStore) Close() {
	if s.conn != nil {
		s.conn.Close()
	}
}
