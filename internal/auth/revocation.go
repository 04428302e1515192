package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lironatar/TasksList/internal/cache"
)

const revokedKeyPrefix = "auth:revoked:"

// TokenRevoker remembers revoked token ids until the tokens would have expired anyway.
type TokenRevoker struct {
	store cache.Store
	now   func() time.Time
}

// NewTokenRevoker wraps a cache store. A nil store yields a nil revoker, which revokes nothing.
func NewTokenRevoker(store cache.Store) *TokenRevoker {
	if store == nil {
		return nil
	}
	return &TokenRevoker{store: store, now: time.Now}
}

// Revoke marks the token id as revoked until expiresAt.
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if r == nil {
		return nil
	}
	key := revokedKey(tokenID)
	if key == "" {
		return errors.New("revocation: token id is required")
	}

	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.store.Set(ctx, key, []byte("1"), ttl)
}

// IsRevoked reports whether the token id was revoked.
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if r == nil {
		return false, nil
	}
	key := revokedKey(tokenID)
	if key == "" {
		return false, nil
	}
	_, found, err := r.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return found, nil
}

func revokedKey(tokenID string) string {
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return ""
	}
	return revokedKeyPrefix + tokenID
}
