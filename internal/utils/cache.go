package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // Cached payload encoding
	"time"          // Cache TTLs

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache loads a cached read model (account snapshot, statement page,
// admin listing) into dest. The boolean reports whether the key was present;
// a miss is not an error.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Cache miss
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache stores a read model under key for ttl. Handlers that mutate a
// balance are responsible for invalidating the affected keys afterwards.
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache drops one cached entry after a deposit, withdrawal or transfer
// touches the account it describes
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}
