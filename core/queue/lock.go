package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned by Lock when another holder owns the resource.
var ErrLocked = errors.New("resource is locked")

// releaseScript deletes the lock only when it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a held per-resource lock.
type Lock struct {
	rdb   *redis.Client
	key   string
	token string
}

// Lock acquires the named lock for at most ttl. It returns ErrLocked when the
// lock is already held. The ttl only bounds crashed holders; callers Release.
func (q *Queue) Lock(ctx context.Context, name string, ttl time.Duration) (*Lock, error) {
	key := q.key("lock", name)
	token := uuid.NewString()

	ok, err := q.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: %w", name, ErrLocked)
	}
	return &Lock{rdb: q.rdb, key: key, token: token}, nil
}

// Release frees the lock if it is still owned by this holder.
func (l *Lock) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release lock %s: %w", l.key, err)
	}
	return nil
}
