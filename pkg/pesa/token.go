package pesa

import (
	"context"
	"sync"
	"time"
)

// Token is a bearer token with its absolute validity window.
type Token struct {
	AccessToken string    `json:"access_token" yaml:"access_token"`
	IssuedAt    time.Time `json:"issued_at"    yaml:"issued_at"`
	TTLSeconds  int64     `json:"ttl_seconds"  yaml:"ttl_seconds"`
}

// ExpiresAt returns IssuedAt + TTLSeconds.
func (t *Token) ExpiresAt() time.Time {
	if t == nil {
		return time.Time{}
	}

	return t.IssuedAt.Add(time.Duration(t.TTLSeconds) * time.Second)
}

// ValidAt reports whether the token is usable at now.
func (t *Token) ValidAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	return now.Before(t.ExpiresAt())
}

// Valid reports whether the token is usable now.
func (t *Token) Valid() bool {
	return t.ValidAt(time.Now())
}

// TokenStore holds the single active bearer token.
//
// Get returns nil without error when no token is stored or the stored token
// has expired; expired entries are evicted. Put overwrites and stamps the
// issue time from the store's clock.
type TokenStore interface {
	Put(ctx context.Context, accessToken string, ttlSeconds int64) error
	Get(ctx context.Context) (*Token, error)
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token *Token
	now   func() time.Time
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return NewMemoryTokenStoreWithClock(time.Now)
}

// NewMemoryTokenStoreWithClock creates an empty store that reads time from now.
func NewMemoryTokenStoreWithClock(now func() time.Time) *MemoryTokenStore {
	if now == nil {
		now = time.Now
	}

	return &MemoryTokenStore{now: now}
}

// Put records the token and its expiry computed from the current instant.
func (s *MemoryTokenStore) Put(_ context.Context, accessToken string, ttlSeconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &Token{
		AccessToken: accessToken,
		IssuedAt:    s.now(),
		TTLSeconds:  ttlSeconds,
	}

	return nil
}

// Get returns a copy of the stored token while it is valid.
func (s *MemoryTokenStore) Get(_ context.Context) (*Token, error) {
	s.mu.RLock()
	token := s.token
	now := s.now()
	s.mu.RUnlock()

	if token == nil {
		return nil, nil
	}

	if !token.ValidAt(now) {
		s.evict(token)

		return nil, nil
	}

	cp := *token

	return &cp, nil
}

// Clear removes any stored token.
func (s *MemoryTokenStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil

	return nil
}

// evict drops expired only if it is still the stored token.
func (s *MemoryTokenStore) evict(expired *Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == expired {
		s.token = nil
	}
}
