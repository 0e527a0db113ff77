package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the configuration for the Redis-backed store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Namespace is the hash key the session fields live under, so several
	// consoles can share one Redis without clobbering each other.
	Namespace string
}

// Redis keeps the session keys in a Redis hash. Used for shared or kiosk
// console deployments where a local file does not survive the host.
type Redis struct {
	client    *redis.Client
	namespace string
}

func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Ping the Redis server to ensure the connection is established
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "fleet-admin:session"
	}

	return &Redis{client: client, namespace: namespace}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.HGet(ctx, r.namespace, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return value, err
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.HSet(ctx, r.namespace, key, value).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.HDel(ctx, r.namespace, key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
