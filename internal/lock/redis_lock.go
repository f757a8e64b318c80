package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)

// RedisLocker is a lease lock shared by every API replica. The lease is
// renewed every TTL/3 while held, so TTL only bounds how long a crashed
// holder blocks others.
type RedisLocker struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
	log   *logrus.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, log *logrus.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: 50 * time.Millisecond, log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ErrNotAcquired
		case <-time.After(l.retry):
		}
	}

	stop := make(chan struct{})
	go l.renew(key, token, stop)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			// the caller's ctx may already be cancelled
			rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(rctx, l.rdb, []string{key}, token).Err(); err != nil && err != redis.Nil {
				l.log.WithError(err).WithField("key", key).Warn("lock release failed")
			}
		})
	}, nil
}

func (l *RedisLocker) renew(key, token string, stop <-chan struct{}) {
	t := time.NewTicker(l.ttl / 3)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		n, err := renewScript.Run(rctx, l.rdb, []string{key}, token, l.ttl.Milliseconds()).Int()
		cancel()
		switch {
		case err != nil:
			l.log.WithError(err).WithField("key", key).Warn("lock renewal failed")
		case n == 0:
			l.log.WithField("key", key).Error("lock lease lost before release")
			return
		}
	}
}
