package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL время жизни ключа блокировки, если владелец не освободил её
	DefaultTTL = 10 * time.Second

	// DefaultWait максимальное время ожидания блокировки
	DefaultWait = 5 * time.Second

	retryInterval = 50 * time.Millisecond
)

// releaseScript удаляет ключ, только если он принадлежит владельцу токена
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker распределённая блокировка на SET NX PX с освобождением по токену
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger Logger
}

// NewRedisLocker создает locker поверх клиента Redis
// ttl и wait <= 0 заменяются значениями по умолчанию
func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if wait <= 0 {
		wait = DefaultWait
	}
	return &RedisLocker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		logger: logger,
	}
}

// WithLock выполняет fn, удерживая блокировку key во всех репликах сервиса
func (r *RedisLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	if err := r.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		// Освобождаем даже если запрос уже отменён
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, r.client, []string{key}, token).Err(); err != nil {
			r.logger.Warn("RedisLocker: failed to release key=%s: %v", key, err)
		}
	}()

	return fn(ctx)
}

func (r *RedisLocker) acquire(ctx context.Context, key, token string) error {
	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := r.client.SetNX(waitCtx, key, token, r.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, waitCtx.Err())
			}
			return fmt.Errorf("%w: SETNX %s: %v", ErrBackend, key, err)
		}
		if ok {
			return nil
		}

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("%w: %s: %v", ErrNotAcquired, key, waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrBackend, addr, err)
	}

	return client, nil
}
