package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const refTTL = 48 * time.Hour

// RefChecker provides idempotency checks on client payment references
// backed by Redis. Key format: ref:<reference>
type RefChecker struct {
	client *redis.Client
}

// NewRefChecker creates a RefChecker wrapping the given Redis client.
func NewRefChecker(client *redis.Client) *RefChecker {
	return &RefChecker{client: client}
}

// IsUsed reports whether this payment reference has already been submitted.
func (c *RefChecker) IsUsed(ctx context.Context, ref string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(ref)).Result()
	if err != nil {
		return false, fmt.Errorf("ref check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reference has been consumed (expires after refTTL).
func (c *RefChecker) Mark(ctx context.Context, ref string) error {
	return c.client.Set(ctx, c.key(ref), "1", refTTL).Err()
}

func (c *RefChecker) key(ref string) string {
	return fmt.Sprintf("ref:%s", ref)
}
