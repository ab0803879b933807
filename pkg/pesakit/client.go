package pesakit

import (
	"context"
	"fmt"
	"sync"

	"github.com/pesakit/pesakit-go/internal/client"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

// New creates a gateway client bound to the config's credentials and
// environment. Every endpoint is resolved up front, so a bad environment or
// base URL fails here rather than on the first call.
func New(ctx context.Context, config *pesa.Config) (pesa.Client, error) {
	if config == nil {
		return nil, pesa.ErrConfigRequired
	}

	err := ctx.Err()
	if err != nil {
		return nil, err
	}

	cli, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// NewWithStore creates a client whose token store is built from storeConfig.
// It overrides any TokenStore already set on config.
func NewWithStore(ctx context.Context, config *pesa.Config, storeConfig *pesa.StoreConfig) (pesa.Client, error) {
	if config == nil {
		return nil, pesa.ErrConfigRequired
	}

	store, err := pesa.NewTokenStoreFromConfig(ctx, storeConfig)
	if err != nil {
		return nil, fmt.Errorf("creating token store: %w", err)
	}

	cfg := *config
	cfg.TokenStore = store

	return New(ctx, &cfg)
}

var (
	instanceMu sync.RWMutex
	instance   pesa.Client
)

// Configure builds the process-wide client. It may succeed only once;
// later calls return pesa.ErrAlreadyConfigured and leave the first client
// in place.
func Configure(ctx context.Context, config *pesa.Config) error {
	instanceMu.Lock()
	defer instanceMu.Unlock()

	if instance != nil {
		return pesa.ErrAlreadyConfigured
	}

	cli, err := New(ctx, config)
	if err != nil {
		return err
	}

	instance = cli

	return nil
}

// MustConfigure is like Configure but panics on error.
func MustConfigure(ctx context.Context, config *pesa.Config) {
	err := Configure(ctx, config)
	if err != nil {
		panic(fmt.Sprintf("pesakit: %v", err))
	}
}

// Instance returns the process-wide client, or pesa.ErrNotConfigured
// before Configure has succeeded.
func Instance() (pesa.Client, error) {
	instanceMu.RLock()
	defer instanceMu.RUnlock()

	if instance == nil {
		return nil, pesa.ErrNotConfigured
	}

	return instance, nil
}

// MustInstance is like Instance but panics when not configured.
func MustInstance() pesa.Client {
	cli, err := Instance()
	if err != nil {
		panic(fmt.Sprintf("pesakit: %v", err))
	}

	return cli
}
