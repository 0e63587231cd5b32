package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker implements server-side sign-out: revoked jtis are held in
// redis until the token would have expired anyway.
type TokenRevoker struct {
	client *redis.Client
}

func NewTokenRevoker(client *redis.Client) *TokenRevoker {
	return &TokenRevoker{client: client}
}

func (t *TokenRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return t.client.Set(ctx, revokeKey(jti), "1", ttl).Err()
}

func (t *TokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := t.client.Exists(ctx, revokeKey(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func revokeKey(jti string) string {
	return fmt.Sprintf("revoked:%s", jti)
}
