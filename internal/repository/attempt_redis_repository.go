package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pollux-site/site-admin/internal/domain"
)

// recordFailureScript restarts or increments the hash in one server-side step.
// The key expires one second after its window ends, since a record whose
// first_attempt_at equals now-window still counts. Expiry is only
// housekeeping: readers compare first_attempt_at against the window themselves.
var recordFailureScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local raw = redis.call('HGET', KEYS[1], 'first_attempt_at')
local first = nil
if raw then
  first = tonumber(raw)
end
if first == nil or first < now - window then
  redis.call('HSET', KEYS[1], 'attempts', 1, 'first_attempt_at', now, 'last_attempt_at', now)
  first = now
else
  redis.call('HINCRBY', KEYS[1], 'attempts', 1)
  redis.call('HSET', KEYS[1], 'last_attempt_at', now)
end
redis.call('EXPIREAT', KEYS[1], first + window + 1)
return redis.call('HGET', KEYS[1], 'attempts')
`)

type redisAttemptRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisAttemptRepository stores each record as a hash under prefix+"login_attempts:"+ip.
func NewRedisAttemptRepository(client *redis.Client, prefix string) AttemptRepository {
	return &redisAttemptRepository{client: client, prefix: prefix}
}

func (r *redisAttemptRepository) key(ip string) string {
	return r.prefix + "login_attempts:" + ip
}

func (r *redisAttemptRepository) Get(ctx context.Context, ip string) (*domain.LoginAttempt, error) {
	fields, err := r.client.HGetAll(ctx, r.key(ip)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	row := attemptRow{IP: ip}
	if row.Attempts, err = strconv.Atoi(fields["attempts"]); err != nil {
		return nil, fmt.Errorf("parse attempts for %s: %w", ip, err)
	}
	if row.FirstAttemptAt, err = strconv.ParseInt(fields["first_attempt_at"], 10, 64); err != nil {
		return nil, fmt.Errorf("parse first_attempt_at for %s: %w", ip, err)
	}
	if row.LastAttemptAt, err = strconv.ParseInt(fields["last_attempt_at"], 10, 64); err != nil {
		return nil, fmt.Errorf("parse last_attempt_at for %s: %w", ip, err)
	}
	return row.toDomain(), nil
}

func (r *redisAttemptRepository) RecordFailure(ctx context.Context, ip string, now time.Time, window time.Duration) error {
	windowSeconds := int64(window / time.Second)
	return recordFailureScript.Run(ctx, r.client, []string{r.key(ip)}, now.Unix(), windowSeconds).Err()
}

func (r *redisAttemptRepository) Delete(ctx context.Context, ip string) error {
	return r.client.Del(ctx, r.key(ip)).Err()
}
