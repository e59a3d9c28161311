package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roncloudtech/hospital-remittance/internal/core/domain"
)

// ResetStore keeps password-reset tokens in Redis with a TTL. A token is
// single-use: redeeming it deletes it atomically.
type ResetStore struct {
	client *redis.Client
}

// NewResetStore wraps the given Redis client.
func NewResetStore(client *redis.Client) *ResetStore {
	return &ResetStore{client: client}
}

// Issue stores the token mapped to the account it resets.
func (s *ResetStore) Issue(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, s.key(token), userID, ttl).Err()
}

// Redeem consumes the token and returns the account it belongs to.
func (s *ResetStore) Redeem(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return "", domain.ErrResetTokenInvalid
	}
	if err != nil {
		return "", fmt.Errorf("redeem reset token: %w", err)
	}
	return userID, nil
}

func (s *ResetStore) key(token string) string {
	return fmt.Sprintf("pwreset:%s", token)
}
