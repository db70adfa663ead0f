package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefixVerification = "konekt:verify:"

// consumeScript deletes the code only when it matches, so two concurrent
// verifies cannot both succeed and a wrong guess leaves the code in place.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps verification codes in Redis, expiry is native TTL
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed code store
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, contact, code string, ttl time.Duration) error {
	key := keyPrefixVerification + contact
	if err := s.client.Set(ctx, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, contact, code string) (bool, error) {
	key := keyPrefixVerification + contact

	deleted, err := consumeScript.Run(ctx, s.client, []string{key}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume verification code: %w", err)
	}
	return deleted == 1, nil
}
