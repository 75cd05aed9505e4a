package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/seatsmith/seatsmith/internal/cart/domain"
	"github.com/seatsmith/seatsmith/internal/config"
	"go.uber.org/zap"
)

const (
	lockKeyPrefix = "seatsmith:cart:user:"
	lockTTL       = 10 * time.Second
)

const lockReleaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// NewUserLock picks the lock backend from config: redis when an address is
// configured, otherwise an in-process lock. The in-process lock is only
// correct for a single instance.
func NewUserLock(cfg config.Config, log *zap.Logger) domain.UserLock {
	if cfg.RedisAddr == "" {
		log.Named("cart.lock").Info("redis not configured, using in-process user lock")
		return &localLock{held: make(map[string]bool)}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	return &redisLock{
		client: client,
		script: redis.NewScript(lockReleaseScript),
		log:    log.Named("cart.lock"),
	}
}

type redisLock struct {
	client *redis.Client
	script *redis.Script
	log    *zap.Logger
}

func (l *redisLock) Acquire(ctx context.Context, userID string) (func(), error) {
	key := lockKeyPrefix + userID
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserBusy
	}
	release := func() {
		// Compare-and-delete so an expired lock taken over by another
		// holder is never released by us.
		if err := l.script.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn("failed to release user lock", zap.String("key", key), zap.Error(err))
		}
	}
	return release, nil
}

type localLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *localLock) Acquire(_ context.Context, userID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[userID] {
		return nil, domain.ErrUserBusy
	}
	l.held[userID] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, userID)
	}
	return release, nil
}
