package auth

import (
	"context"
	"time"

	"studentblog/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:token:"

// TokenStoreInterface defines the revocation list operations.
type TokenStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked token IDs in Redis until the token would have
// expired anyway.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeToken marks tokenID as revoked for ttl.
func (s *TokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsTokenRevoked checks the revocation list. Unreachable redis reads as not revoked.
func (s *TokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedTokenKeyPrefix+tokenID), nil
}
