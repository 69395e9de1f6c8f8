package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"edu-entitlement-platform/internal/usecase"
)

const badgeKey = "badge:pending_requests"

var _ usecase.BadgeCache = (*BadgeCache)(nil)

// BadgeCache caches the admin pending-request count with a short TTL so the
// UI badge poll does not hit the store every time.
type BadgeCache struct {
	cli *redis.Client
	ttl time.Duration
}

func NewBadgeCache(c *Client, ttl time.Duration) *BadgeCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &BadgeCache{cli: c.cli, ttl: ttl}
}

func (b *BadgeCache) GetPendingCount(ctx context.Context) (int, bool) {
	raw, err := b.cli.Get(ctx, badgeKey).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (b *BadgeCache) SetPendingCount(ctx context.Context, n int) {
	_ = b.cli.Set(ctx, badgeKey, strconv.Itoa(n), b.ttl).Err()
}
