package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisDependency checks the projects cache
type RedisDependency struct {
	BaseDependency
	client redisPinger
}

// NewRedisDependency wraps a Redis client
func NewRedisDependency(client redisPinger) *RedisDependency {
	return &RedisDependency{
		BaseDependency: BaseDependency{serviceType: "redis"},
		client:         client,
	}
}

// HealthCheck verifies Redis connectivity
func (d *RedisDependency) HealthCheck(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}
