package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/Suharaz/MerkleAI/pkg/types"
)

const redisKeyPrefix = "merkleai:snapshot:"

// RedisPersistence stores one JSON blob per timeframe in Redis, letting
// several agent processes share the same durable tier.
type RedisPersistence struct {
	client *redis.Client
}

// NewRedisPersistence connects to Redis and verifies the connection.
func NewRedisPersistence(ctx context.Context, addr, password string, db int) (*RedisPersistence, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisPersistence{client: client}, nil
}

func redisKey(tf types.Timeframe) string {
	return redisKeyPrefix + string(tf)
}

// Load reads the timeframe's blob; false when the key does not exist.
func (r *RedisPersistence) Load(ctx context.Context, tf types.Timeframe) (map[string]*types.MarketSnapshot, bool, error) {
	data, err := r.client.Get(ctx, redisKey(tf)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read snapshot key: %w", err)
	}

	snapshots := make(map[string]*types.MarketSnapshot)
	if err := json.Unmarshal(data, &snapshots); err != nil {
		return nil, false, fmt.Errorf("decode snapshot key: %w", err)
	}
	return snapshots, true, nil
}

// Save overwrites the timeframe's blob. No TTL: the next refresh pass
// replaces it and stale-but-present beats absent for crash recovery.
func (r *RedisPersistence) Save(ctx context.Context, tf types.Timeframe, snapshots map[string]*types.MarketSnapshot) error {
	data, err := json.Marshal(snapshots)
	if err != nil {
		return fmt.Errorf("encode snapshots: %w", err)
	}
	if err := r.client.Set(ctx, redisKey(tf), data, 0).Err(); err != nil {
		return fmt.Errorf("write snapshot key: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (r *RedisPersistence) Close() error {
	return r.client.Close()
}
