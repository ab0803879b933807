package pesa

import (
	"context"
	"fmt"
)

// StoreType represents the type of token store backend.
type StoreType string

const (
	// StoreTypeMemory keeps the token in process memory.
	StoreTypeMemory StoreType = "memory"

	// StoreTypeNATS keeps the token in a NATS JetStream KV bucket.
	StoreTypeNATS StoreType = "nats"
)

// StoreConfig configures the token store backend.
type StoreConfig struct {
	// Type is the backend type. Defaults to memory.
	Type StoreType

	// NATS KV configuration, required for StoreTypeNATS.
	NATS *NATSKVConfig

	// KMS enables encryption at rest when set.
	KMS *KMSConfig
}

// KMSConfig selects the AWS KMS key used to encrypt stored tokens.
type KMSConfig struct {
	KeyID  string
	Region string
}

// DefaultStoreConfig returns the in-memory store configuration.
func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{Type: StoreTypeMemory}
}

// NewTokenStoreFromConfig creates a token store from configuration.
func NewTokenStoreFromConfig(ctx context.Context, config *StoreConfig) (TokenStore, error) {
	if config == nil {
		config = DefaultStoreConfig()
	}

	var (
		store TokenStore
		err   error
	)

	switch config.Type {
	case StoreTypeMemory, "":
		store = NewMemoryTokenStore()

	case StoreTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		store, err = NewNATSTokenStore(config.NATS)
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStore, config.Type)
	}

	if config.KMS == nil {
		return store, nil
	}

	cipher, err := NewKMSCipherFromRegion(ctx, config.KMS.Region, config.KMS.KeyID)
	if err != nil {
		closeStore(store)

		return nil, err
	}

	return NewEncryptedTokenStore(store, cipher)
}

func closeStore(store TokenStore) {
	if closer, ok := store.(interface{ Close() }); ok {
		closer.Close()
	}
}
