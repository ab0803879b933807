package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pesakit/pesakit-go/internal/constants"
	"github.com/pesakit/pesakit-go/pkg/pesa"
)

const flightKey = "token"

// Issuer obtains a fresh access token.
type Issuer interface {
	Authenticate(ctx context.Context) (*Grant, error)
}

// TokenManager hands out bearer tokens from the store and runs at most one
// authentication at a time when the store is empty.
type TokenManager struct {
	issuer  Issuer
	store   pesa.TokenStore
	timeout time.Duration
	logger  pesa.Logger

	group singleflight.Group
	// mu orders store writes against compare-and-clear invalidation.
	mu sync.Mutex
}

// ManagerOption configures the TokenManager.
type ManagerOption func(*TokenManager)

// WithAuthTimeout bounds the shared authentication flight.
func WithAuthTimeout(timeout time.Duration) ManagerOption {
	return func(m *TokenManager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(logger pesa.Logger) ManagerOption {
	return func(m *TokenManager) {
		m.logger = logger
	}
}

// NewTokenManager creates a token manager over store.
func NewTokenManager(issuer Issuer, store pesa.TokenStore, opts ...ManagerOption) *TokenManager {
	manager := &TokenManager{
		issuer:  issuer,
		store:   store,
		timeout: constants.DefaultAuthTimeout,
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

// Token returns a valid access token, authenticating when none is cached.
// Any failure is reported as pesa.ErrInvalidAccessToken with the cause joined.
func (m *TokenManager) Token(ctx context.Context) (string, error) {
	token := m.cached(ctx)
	if token != nil {
		return token.AccessToken, nil
	}

	flight := m.group.DoChan(flightKey, func() (interface{}, error) {
		return nil, m.authenticate(ctx)
	})

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", pesa.ErrInvalidAccessToken, ctx.Err())
	case result := <-flight:
		if result.Err != nil {
			return "", fmt.Errorf("%w: %w", pesa.ErrInvalidAccessToken, result.Err)
		}
	}

	token = m.cached(ctx)
	if token == nil {
		return "", pesa.ErrInvalidAccessToken
	}

	return token.AccessToken, nil
}

// Invalidate clears the store if it still holds used.
func (m *TokenManager) Invalidate(ctx context.Context, used string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token := m.cached(ctx)
	if token == nil || token.AccessToken != used {
		return
	}

	err := m.store.Clear(ctx)
	if err != nil {
		m.warn("failed to clear rejected token", err)
	}
}

// Expiry returns the expiry of the cached token, or the zero time.
func (m *TokenManager) Expiry(ctx context.Context) (time.Time, error) {
	token, err := m.store.Get(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading token store: %w", err)
	}

	if token == nil {
		return time.Time{}, nil
	}

	return token.ExpiresAt(), nil
}

// authenticate runs inside the single flight on a context detached from the
// caller that started it, so a cancelled caller cannot abort the exchange
// or interrupt the store write other callers are waiting on.
func (m *TokenManager) authenticate(parent context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), m.timeout)
	defer cancel()

	if m.cached(ctx) != nil {
		return nil
	}

	grant, err := m.issuer.Authenticate(ctx)
	if err != nil {
		m.mu.Lock()
		clearErr := m.store.Clear(ctx)
		m.mu.Unlock()

		if clearErr != nil {
			m.warn("failed to clear token store", clearErr)
		}

		return err
	}

	m.mu.Lock()
	err = m.store.Put(ctx, grant.AccessToken, grant.ExpiresIn)
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}

	if m.logger != nil {
		m.logger.Debug("access token issued", map[string]interface{}{
			"expires_in": grant.ExpiresIn,
		})
	}

	return nil
}

// cached reads the store, treating read failures as a miss.
func (m *TokenManager) cached(ctx context.Context) *pesa.Token {
	token, err := m.store.Get(ctx)
	if err != nil {
		m.warn("failed to read token store", err)

		return nil
	}

	return token
}

func (m *TokenManager) warn(msg string, err error) {
	if m.logger == nil {
		return
	}

	m.logger.Warn(msg, map[string]interface{}{"error": err.Error()})
}
