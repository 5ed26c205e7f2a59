package lock

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"github.com/oggyb/vidhub/internal/db"
)

// ErrBusy is returned when a key stays held for the whole retry budget.
var ErrBusy = errors.New("lock is held by another operation")

// Locker serializes work per key. Different keys never contend.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// RedisLocker implements Locker with redsync mutexes on a single Redis.
type RedisLocker struct {
	rs    *redsync.Redsync
	ttl   time.Duration
	tries int
}

// NewRedisLocker builds a locker on top of an existing go-redis client.
// ttl bounds how long a crashed holder can block a key.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, tries int) *RedisLocker {
	if tries <= 0 {
		tries = 32
	}
	return &RedisLocker{
		rs:    redsync.New(goredis.NewPool(client)),
		ttl:   ttl,
		tries: tries,
	}
}

// Acquire blocks until key is held, the retry budget is spent (ErrBusy)
// or ctx is done. The release func is safe to call once.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	m := l.rs.NewMutex(key,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(l.tries),
		redsync.WithRetryDelayFunc(func(int) time.Duration {
			return time.Duration(10+rand.IntN(40)) * time.Millisecond
		}),
	)

	if err := m.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var redisErr *redsync.RedisError
		if errors.As(err, &redisErr) {
			return nil, fmt.Errorf("acquire %s: %w", key, err)
		}
		// ErrFailed, ErrTaken and ErrNodeTaken all mean another holder kept the key
		return nil, fmt.Errorf("%w: %s", ErrBusy, key)
	}

	return func() {
		// release even when the request context was canceled mid-operation
		_, _ = m.UnlockContext(context.WithoutCancel(ctx))
	}, nil
}

// LikeKey is the lock key of one (actor, target) like pair.
func LikeKey(actorID uint64, target db.LikeTarget) string {
	return fmt.Sprintf("lock:like:%d:%s:%d", actorID, target.Type, target.ID)
}

// SubscriptionKey is the lock key of one (subscriber, channel) pair.
func SubscriptionKey(subscriberID, channelID uint64) string {
	return fmt.Sprintf("lock:sub:%d:%d", subscriberID, channelID)
}

// PlaylistKey is the lock key of a playlist's membership list.
func PlaylistKey(playlistID uint64) string {
	return fmt.Sprintf("lock:playlist:%d", playlistID)
}
