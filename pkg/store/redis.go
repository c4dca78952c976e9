package store

import (
	"time"

	"github.com/animalet/properties-go/pkg/properties"
	"github.com/gomodule/redigo/redis"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// RedisConfig holds configuration for a Redis-backed property store
type RedisConfig struct {
	Address string `yaml:"address"`
	// Hash is the Redis hash the properties are written into.
	// Defaults to "properties" when empty.
	Hash string `yaml:"hash"`
}

// Validate checks if the RedisConfig has all required fields set
func (r RedisConfig) Validate() error {
	if r.Address == "" {
		return errors.New("Redis address is required")
	}
	return nil
}

// CreateClient creates a Redis connection pool from this config.
// The pool includes connection health checking, idle connection management,
// and automatic reconnection.
func (r RedisConfig) CreateClient() (*redis.Pool, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	address := r.Address
	return &redis.Pool{
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", address) },
	}, nil
}

// Redis publishes properties into a Redis hash, one field per key.
type Redis struct {
	pool *redis.Pool
	hash string
}

// NewRedis creates a Redis-backed store
//
// Parameters:
//   - pool: Pre-configured Redis connection pool
//   - hash: The hash key to write properties into ("properties" if empty)
func NewRedis(pool *redis.Pool, hash string) *Redis {
	if hash == "" {
		hash = "properties"
	}
	return &Redis{pool: pool, hash: hash}
}

// Merge writes all entries of m into the hash with a single HSET.
func (s *Redis) Merge(m properties.Map) error {
	if len(m) == 0 {
		return nil
	}

	conn := s.pool.Get()
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to return Redis connection to the pool")
		}
	}()

	args := redis.Args{}.Add(s.hash)
	for _, k := range m.Keys() {
		args = args.Add(k, m[k])
	}

	if _, err := conn.Do("HSET", args...); err != nil {
		return errors.Wrapf(err, "failed to write properties to Redis hash %q", s.hash)
	}

	log.Debug().Str("hash", s.hash).Int("keys", len(m)).Msg("Merged properties into Redis")
	return nil
}

// Name returns the store name
func (s *Redis) Name() string {
	return "Redis"
}
