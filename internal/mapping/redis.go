package mapping

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const redisOpTimeout = 5 * time.Second

// RedisStore keeps one hash per mapping key. It lets several workstations
// share the same value mappings without passing JSON files around.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed mapping store
func NewRedisStore(redisURL, keyPrefix string, logger *zap.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Mapping store initialized",
		zap.String("backend", "redis"),
		zap.String("redis_url", maskRedisURL(redisURL)),
		zap.String("key_prefix", keyPrefix))

	return &RedisStore{client: client, prefix: keyPrefix, logger: logger}, nil
}

// Load reads the hash stored under key; a missing hash yields an empty mapping
func (s *RedisStore) Load(key string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	values, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping %q: %w", key, err)
	}
	if values == nil {
		values = map[string]string{}
	}

	s.logger.Debug("Loaded mapping",
		zap.String("key", key),
		zap.Int("entries", len(values)))
	return values, nil
}

// Save replaces the hash stored under key
func (s *RedisStore) Save(key string, values map[string]string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.prefix+key)
	if len(values) > 0 {
		fields := make(map[string]interface{}, len(values))
		for original, synthetic := range values {
			fields[original] = synthetic
		}
		pipe.HSet(ctx, s.prefix+key, fields)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save mapping %q: %w", key, err)
	}

	s.logger.Debug("Saved mapping",
		zap.String("key", key),
		zap.Int("entries", len(values)))
	return nil
}

// Delete removes the hash stored under key
func (s *RedisStore) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete mapping %q: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// maskRedisURL masks credentials in Redis URLs for safe logging
func maskRedisURL(url string) string {
	if at := strings.LastIndex(url, "@"); at != -1 {
		if scheme := strings.Index(url, "://"); scheme != -1 {
			return url[:scheme+3] + "***@" + url[at+1:]
		}
	}
	return url
}
