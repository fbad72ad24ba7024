// Package ratelimit limita tentativas de login com janela fixa no Redis.
package ratelimit

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "income-report:login:"

// counter guarda quantas tentativas cada chave fez na janela corrente
type counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}

type LoginLimiter struct {
	counter     counter
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return newLoginLimiter(&redisCounter{rdb: client}, maxAttempts, window)
}

func newLoginLimiter(c counter, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{
		counter:     c,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

// Allow registra a tentativa e diz se ela ainda cabe na janela
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := l.counter.Incr(ctx, keyPrefix+key, l.window)
	if err != nil {
		return false, err
	}
	return count <= l.maxAttempts, nil
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	return l.counter.Reset(ctx, keyPrefix+key)
}

// NewClient abre o cliente a partir de uma URL redis:// e confere a conexão
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "REDIS_URL inválida")
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, "erro ao conectar no redis")
	}

	return rdb, nil
}

type redisCounter struct {
	rdb *redis.Client
}

// Incr conta a tentativa. SET NX EX e INCR vão na mesma transação: a chave
// nasce com TTL e as tentativas seguintes não renovam a janela.
func (c *redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, key, 0, window)
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "erro ao contar tentativa de login")
	}

	// chave gravada sem TTL por outro cliente
	if ttl.Val() < 0 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, errors.Wrap(err, "erro ao definir janela de tentativas")
		}
	}

	return incr.Val(), nil
}

func (c *redisCounter) Reset(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}
