package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"edu-entitlement-platform/internal/domain"
)

// RedeemGuard serializes redemption attempts for one prepaid code across
// processes. The storage transaction already guarantees correctness; the
// guard just rejects a double-submitted redeem early instead of letting the
// second attempt block on the advisory lock.
type RedeemGuard struct {
	cli *redis.Client
}

func NewRedeemGuard(c *Client) *RedeemGuard {
	return &RedeemGuard{cli: c.cli}
}

func (g *RedeemGuard) TryLock(ctx context.Context, code string, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	ok, err := g.cli.SetNX(ctx, "redeem:"+code, token, ttl).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrOperationFailed
	}
	return token, nil
}

var luaUnlock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

func (g *RedeemGuard) Unlock(ctx context.Context, code, token string) error {
	_, err := luaUnlock.Run(ctx, g.cli, []string{"redeem:" + code}, token).Result()
	return err
}
