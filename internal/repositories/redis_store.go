package repositories

import (
	"context"

	"github.com/redis/go-redis/v9"

	"bean/internal/model"
)

// DefaultRedisKey is the list key used when none is configured.
const DefaultRedisKey = "bean:tasks"

// RedisStore keeps the save lines in a Redis list. A write is DEL + RPUSH in
// one MULTI/EXEC so readers never see a half-written list.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Backend() string { return "redis" }

func (s *RedisStore) ReadLines(ctx context.Context) ([]string, error) {
	lines, err := s.rdb.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, &model.IOError{Op: "read", Err: err}
	}
	return lines, nil
}

func (s *RedisStore) WriteLines(ctx context.Context, lines []string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		if len(lines) > 0 {
			vals := make([]interface{}, len(lines))
			for i, l := range lines {
				vals[i] = l
			}
			pipe.RPush(ctx, s.key, vals...)
		}
		return nil
	})
	if err != nil {
		return &model.IOError{Op: "write", Err: err}
	}
	return nil
}
